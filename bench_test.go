package epubdoc

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// benchBodies returns n chapter bodies with a heading, a list and a few
// paragraphs each.
func benchBodies(n int) []string {
	bodies := make([]string, n)
	for i := range bodies {
		var b strings.Builder
		fmt.Fprintf(&b, `<h1 id="c%d">Chapter %d</h1>`, i, i+1)
		for p := 0; p < 20; p++ {
			fmt.Fprintf(&b, `<p>Paragraph %d of chapter %d with <em>some</em> inline <b>markup</b> and enough words to matter.</p>`, p, i+1)
		}
		b.WriteString(`<ul><li>one</li><li>two<ul><li>nested</li></ul></li></ul>`)
		bodies[i] = b.String()
	}
	return bodies
}

func BenchmarkParseMarkup(b *testing.B) {
	doc := []byte(xhtml(benchBodies(1)[0]))
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := ParseMarkup(bytes.NewReader(doc), "OEBPS/ch1.xhtml", 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOpen(b *testing.B) {
	files := testBookFiles("", "", benchBodies(50)...)
	data := buildTestZipBytes(b, files)
	b.ReportAllocs()
	for b.Loop() {
		book, err := NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			b.Fatal(err)
		}
		book.Close()
	}
}

func BenchmarkLocate(b *testing.B) {
	files := testBookFiles("", "", benchBodies(50)...)
	data := buildTestZipBytes(b, files)
	book, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; b.Loop(); i++ {
		book.Locate(MakeAddress(i%50, uint32(i%400)))
	}
}
