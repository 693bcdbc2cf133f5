package epubdoc

import "testing"

func TestParseNCX_Nested(t *testing.T) {
	data := ncxDocument(
		ncxNavPoint("Part One", "text/part1.xhtml",
			ncxNavPoint("Chapter 1", "text/ch1.xhtml#start"),
			ncxNavPoint("  Chapter\n 2 ", "text/ch2.xhtml"),
		),
		ncxNavPoint("Appendix", "../appendix.xhtml"),
	)
	points, err := parseNCX([]byte(data), "OEBPS/toc.ncx")
	if err != nil {
		t.Fatalf("parseNCX: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d top-level points, want 2", len(points))
	}
	part := points[0]
	if part.Label != "Part One" || part.Path != "OEBPS/text/part1.xhtml" {
		t.Errorf("points[0] = %+v", part)
	}
	if len(part.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(part.Children))
	}
	if c := part.Children[0]; c.Path != "OEBPS/text/ch1.xhtml" || c.Fragment != "start" {
		t.Errorf("child 0 = %+v, want path OEBPS/text/ch1.xhtml fragment start", c)
	}
	if got := part.Children[1].Label; got != "Chapter 2" {
		t.Errorf("child 1 label = %q, want %q", got, "Chapter 2")
	}
	if got := points[1].Path; got != "appendix.xhtml" {
		t.Errorf("points[1].Path = %q, want %q", got, "appendix.xhtml")
	}
}

func TestParseNCX_IncompletePointPromotesChildren(t *testing.T) {
	untargeted := `<navPoint><navLabel><text>Untargeted</text></navLabel>` + ncxNavPoint("Inner", "inner.xhtml") + `</navPoint>`
	data := ncxDocument(
		untargeted,
		ncxNavPoint("", "unlabeled.xhtml"),
		ncxNavPoint("Last", "last.xhtml"),
	)
	points, err := parseNCX([]byte(data), "toc.ncx")
	if err != nil {
		t.Fatalf("parseNCX: %v", err)
	}
	var labels []string
	for _, p := range points {
		labels = append(labels, p.Label)
	}
	if len(labels) != 2 || labels[0] != "Inner" || labels[1] != "Last" {
		t.Errorf("labels = %v, want [Inner Last]", labels)
	}
}

func TestParseNCX_Entities(t *testing.T) {
	data := ncxDocument(ncxNavPoint("Caf&eacute; &amp; Bar", "c.xhtml"))
	points, err := parseNCX([]byte(data), "toc.ncx")
	if err != nil {
		t.Fatalf("parseNCX: %v", err)
	}
	if len(points) != 1 || points[0].Label != "Café & Bar" {
		t.Errorf("points = %+v, want label %q", points, "Café & Bar")
	}
}

func TestParseNCX_NoNavMap(t *testing.T) {
	points, err := parseNCX([]byte(`<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/"></ncx>`), "toc.ncx")
	if err != nil {
		t.Fatalf("parseNCX: %v", err)
	}
	if points != nil {
		t.Errorf("points = %v, want nil", points)
	}
}

func TestParseNavDocument(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
  <nav epub:type="landmarks"><ol><li><a href="cover.xhtml">Cover</a></li></ol></nav>
  <nav epub:type="toc">
    <h1>Contents</h1>
    <ol>
      <li><a href="ch1.xhtml">Chapter <em>One</em></a></li>
      <li><span>Part Two</span>
        <ol>
          <li><a href="ch2.xhtml#s1">Section A</a></li>
          <li><a href="ch3.xhtml"></a></li>
        </ol>
      </li>
      <li><ol><li><a href="ch4.xhtml">Promoted</a></li></ol></li>
      <li><a href="http://example.com">External</a></li>
    </ol>
  </nav>
</body>
</html>`
	points, err := parseNavDocument([]byte(data), "OEBPS/nav.xhtml")
	if err != nil {
		t.Fatalf("parseNavDocument: %v", err)
	}

	if len(points) != 4 {
		t.Fatalf("got %d points %+v, want 4", len(points), points)
	}
	if p := points[0]; p.Label != "Chapter One" || p.Path != "OEBPS/ch1.xhtml" {
		t.Errorf("points[0] = %+v", p)
	}
	part := points[1]
	if part.Label != "Part Two" || part.Path != "" {
		t.Errorf("points[1] = %+v, want label-only Part Two", part)
	}
	if len(part.Children) != 2 {
		t.Fatalf("Part Two has %d children, want 2", len(part.Children))
	}
	if c := part.Children[0]; c.Path != "OEBPS/ch2.xhtml" || c.Fragment != "s1" {
		t.Errorf("Part Two child 0 = %+v", c)
	}
	if got := part.Children[1].Label; got != "ch3" {
		t.Errorf("unlabeled link label = %q, want %q", got, "ch3")
	}
	if p := points[2]; p.Label != "Promoted" {
		t.Errorf("points[2] = %+v, want promoted child", p)
	}
	if p := points[3]; p.Label != "External" || p.Path != "" {
		t.Errorf("points[3] = %+v, want label-only External", p)
	}
}

func TestParseNavDocument_NoNav(t *testing.T) {
	points, err := parseNavDocument([]byte(xhtml(`<p>nothing</p>`)), "nav.xhtml")
	if err != nil {
		t.Fatalf("parseNavDocument: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("points = %v, want none", points)
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  a  ", "a"},
		{"a\n\tb   c", "a b c"},
	}
	for _, tt := range tests {
		if got := normalizeLabel(tt.input); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
