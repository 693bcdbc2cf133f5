package epubdoc

import (
	"fmt"
	"strings"
)

// loadNavigation tries the legacy NCX tree first, then the ePub 3 nav
// document. The first source yielding entries wins; nil means neither did.
func (b *Book) loadNavigation() []NavPoint {
	if points := b.legacyNavigation(); len(points) > 0 {
		return points
	}
	if points := b.modernNavigation(); len(points) > 0 {
		return points
	}
	return nil
}

func (b *Book) legacyNavigation() []NavPoint {
	item, ok := b.manifest.byID[b.pkg.Spine.Toc]
	if !ok || b.pkg.Spine.Toc == "" {
		if item, ok = b.manifest.byMediaType(ncxMediaType); !ok {
			return nil
		}
	}
	ncxPath := b.manifest.resolve(item.Href)
	data, err := b.arc.readEntry(ncxPath)
	if err != nil {
		b.report.warn("NCX unreadable", "path", ncxPath, "error", err)
		return nil
	}
	points, err := parseNCX(data, ncxPath)
	if err != nil {
		b.report.warn("NCX unparseable", "path", ncxPath, "error", err)
		return nil
	}
	return points
}

func (b *Book) modernNavigation() []NavPoint {
	item, ok := b.manifest.byProperty("nav")
	if !ok {
		return nil
	}
	navPath := b.manifest.resolve(item.Href)
	data, err := b.arc.readEntry(navPath)
	if err != nil {
		b.report.warn("nav document unreadable", "path", navPath, "error", err)
		return nil
	}
	points, err := parseNavDocument(data, navPath)
	if err != nil {
		b.report.warn("nav document unparseable", "path", navPath, "error", err)
		return nil
	}
	return points
}

// flattenTOC turns the navigation tree into the entry list, pre-order, with
// the tree depth as indent. Links are matched to content items by path;
// links to anything else are dropped. A label-only entry points where the
// next navigable entry points.
func (b *Book) flattenTOC(points []NavPoint) []TOCEntry {
	exact := make(map[string]int, b.content.ItemCount())
	lower := make(map[string]int, b.content.ItemCount())
	for i := b.content.ItemCount() - 1; i >= 0; i-- {
		if p := b.content.Path(i); p != "" {
			exact[p] = i
			lower[strings.ToLower(p)] = i
		}
	}

	var entries []TOCEntry
	var walk func([]NavPoint, int)
	walk = func(points []NavPoint, depth int) {
		for _, np := range points {
			switch {
			case np.Path == "":
				entries = append(entries, TOCEntry{Label: np.Label, Indent: depth, Item: -1})
			default:
				idx, ok := exact[np.Path]
				if !ok {
					idx, ok = lower[strings.ToLower(np.Path)]
				}
				if !ok {
					b.report.warn("TOC entry matches no content item", "label", np.Label, "path", np.Path)
					break
				}
				entries = append(entries, TOCEntry{
					Label:    np.Label,
					Indent:   depth,
					Item:     idx,
					Fragment: np.Fragment,
				})
			}
			walk(np.Children, depth+1)
		}
	}
	walk(points, 0)

	next, frag := -1, ""
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Item >= 0 {
			next, frag = entries[i].Item, entries[i].Fragment
			continue
		}
		entries[i].Item, entries[i].Fragment = next, frag
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Item >= 0 {
			out = append(out, e)
		}
	}
	return out
}

// fallbackTOC has one top-level entry per content item, named after its file.
func (b *Book) fallbackTOC() []TOCEntry {
	entries := make([]TOCEntry, b.content.ItemCount())
	for i := range entries {
		label := fmt.Sprintf("Section %d", i+1)
		if p := b.content.Path(i); p != "" {
			label = itemName(p)
		}
		entries[i] = TOCEntry{Label: label, Item: i}
	}
	return entries
}

// buildTOC produces the final entry list with resolved start addresses.
func (b *Book) buildTOC() []TOCEntry {
	var entries []TOCEntry
	if points := b.loadNavigation(); len(points) > 0 {
		entries = b.flattenTOC(points)
	}
	if len(entries) == 0 {
		if b.content.ItemCount() > 0 {
			b.report.warn("no usable table of contents, using one entry per content item")
		}
		entries = b.fallbackTOC()
	}

	for i := range entries {
		if i > 0 && entries[i].Item < entries[i-1].Item {
			b.report.warn("TOC entries out of reading order", "entry", i, "label", entries[i].Label)
		}
		entries[i].addr = b.resolveEntry(entries[i])
	}
	return entries
}

// resolveEntry returns the start of the entry's item, or the address bound
// to its fragment id when the item defines it. Resolving a fragment parses
// the item.
func (b *Book) resolveEntry(e TOCEntry) Address {
	addr := MakeAddress(e.Item, 0)
	if e.Fragment == "" {
		return addr
	}
	if a, ok := b.content.anchor(e.Item, e.Fragment); ok {
		return a
	}
	b.report.warn("TOC fragment not found", "label", e.Label, "item", e.Item, "fragment", e.Fragment)
	return addr
}
