package epubdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// --- Legacy navigation (NCX, ePub 2) ---

// parseNCX parses an NCX document into a navigation tree. ncxPath is the
// archive path of the NCX file; link targets are resolved against it.
//
// A navPoint needs both a label and a link target. One that lacks either is
// dropped, and its children take its place in the tree.
func parseNCX(data []byte, ncxPath string) ([]NavPoint, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(prepareXML(data)))
	if err != nil {
		return nil, fmt.Errorf("epubdoc: parse NCX: %w", err)
	}
	navMap := findXMLElement(doc, "navMap")
	if navMap == nil {
		return nil, nil
	}
	return convertNavPoints(navMap, ncxPath), nil
}

func convertNavPoints(parent *xmlquery.Node, ncxPath string) []NavPoint {
	var points []NavPoint
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if !isXMLElement(c, "navPoint") {
			continue
		}

		var label, src string
		if nl := childXMLElement(c, "navLabel"); nl != nil {
			if t := childXMLElement(nl, "text"); t != nil {
				label = normalizeLabel(t.InnerText())
			}
		}
		if content := childXMLElement(c, "content"); content != nil {
			src = strings.TrimSpace(content.SelectAttr("src"))
		}
		p, frag := splitFragment(src)
		target := resolveRelativePath(ncxPath, p)

		children := convertNavPoints(c, ncxPath)
		if label == "" || target == "" {
			points = append(points, children...)
			continue
		}
		points = append(points, NavPoint{
			Label:    label,
			Path:     target,
			Fragment: frag,
			Children: children,
		})
	}
	return points
}

func isXMLElement(n *xmlquery.Node, name string) bool {
	return n.Type == xmlquery.ElementNode && n.Data == name
}

func childXMLElement(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isXMLElement(c, name) {
			return c
		}
	}
	return nil
}

// findXMLElement does a depth-first search by local name.
func findXMLElement(n *xmlquery.Node, name string) *xmlquery.Node {
	if isXMLElement(n, name) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findXMLElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// --- Modern navigation (nav document, ePub 3) ---

// parseNavDocument parses the ol/li structure of an ePub 3 nav document.
// The nav element typed "toc" is used, or the first nav element when none
// is typed.
func parseNavDocument(data []byte, navPath string) ([]NavPoint, error) {
	doc, err := html.Parse(bytes.NewReader(stripBOM(data)))
	if err != nil {
		return nil, fmt.Errorf("epubdoc: parse nav document: %w", err)
	}

	var navs []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Nav {
			navs = append(navs, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)
	if len(navs) == 0 {
		return nil, nil
	}

	nav := navs[0]
	for _, n := range navs {
		if hasEpubType(n, "toc") {
			nav = n
			break
		}
	}
	ol := findElement(nav, atom.Ol)
	if ol == nil {
		return nil, nil
	}
	return parseNavList(ol, navPath), nil
}

func parseNavList(ol *html.Node, navPath string) []NavPoint {
	var points []NavPoint
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			points = append(points, parseNavItem(c, navPath)...)
		}
	}
	return points
}

// parseNavItem converts one li. An item with a link becomes a navigable
// entry; one with only text becomes a label-only entry. An item with
// neither is dropped and its sub-list is promoted in its place.
func parseNavItem(li *html.Node, navPath string) []NavPoint {
	var link, sub *html.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			if link == nil {
				link = c
			}
		case atom.Ol:
			if sub == nil {
				sub = c
			}
		}
	}

	var children []NavPoint
	if sub != nil {
		children = parseNavList(sub, navPath)
	}

	np := NavPoint{Label: navItemLabel(li), Children: children}
	if link != nil {
		p, frag := splitFragment(getAttr(link, "", "href"))
		if !hasURIScheme(p) {
			np.Path = resolveRelativePath(navPath, p)
		}
		if np.Path != "" {
			np.Fragment = frag
		}
	}

	switch {
	case np.Path == "" && np.Label == "":
		return children
	case np.Label == "":
		np.Label = itemName(np.Path)
	}
	return []NavPoint{np}
}

// navItemLabel joins the non-empty text runs under li with single spaces,
// leaving out nested lists.
func navItemLabel(li *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				if t := normalizeLabel(c.Data); t != "" {
					parts = append(parts, t)
				}
			case c.Type == html.ElementNode && c.DataAtom != atom.Ol:
				walk(c)
			}
		}
	}
	walk(li)
	return strings.Join(parts, " ")
}

// hasEpubType reports whether n's epub:type attribute contains typeName.
func hasEpubType(n *html.Node, typeName string) bool {
	for _, t := range strings.Fields(getAttr(n, "", "epub:type")) {
		if t == typeName {
			return true
		}
	}
	return false
}

// normalizeLabel trims s and collapses inner whitespace runs.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
