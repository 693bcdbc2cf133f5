package epubdoc

import (
	"sort"
)

// progressFragment is the span between two consecutive boundaries of the
// progress table. Boundaries are TOC entry starts and content item starts.
type progressFragment struct {
	start Address
	toc   int

	tocOffset uint64
	tocWidth  uint64

	bookOffset uint64
	width      uint64
}

// progressIndex maps addresses to their TOC entry and whole-book offset.
// It is built once and never modified.
type progressIndex struct {
	frags     []progressFragment
	entries   []uint64 // total width per TOC entry
	bookWidth uint64
}

// buildProgressIndex merges TOC entry starts with item boundaries.
// tocStarts[i] is the start address of TOC entry i; itemEnds[j] is one past
// the last address used by content item j.
//
// TOC entries are expected in non-decreasing item order. Out-of-order input
// still produces a well-defined table because both sequences are sorted
// before merging.
func buildProgressIndex(tocStarts []Address, itemEnds []Address) *progressIndex {
	order := make([]int, len(tocStarts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return tocStarts[order[i]] < tocStarts[order[j]]
	})

	p := &progressIndex{
		frags:   make([]progressFragment, 0, len(tocStarts)+len(itemEnds)),
		entries: make([]uint64, max(len(tocStarts), 1)),
	}

	// On an exact tie the TOC fragment goes first; the item fragment then
	// inherits that entry.
	current := 0
	ti, ii := 0, 0
	for ti < len(order) || ii < len(itemEnds) {
		if ti < len(order) && (ii >= len(itemEnds) || tocStarts[order[ti]] <= MakeAddress(ii, 0)) {
			current = order[ti]
			p.frags = append(p.frags, progressFragment{start: tocStarts[current], toc: current})
			ti++
			continue
		}
		p.frags = append(p.frags, progressFragment{start: MakeAddress(ii, 0), toc: current})
		ii++
	}

	for k := range p.frags {
		f := &p.frags[k]
		item := f.start.Item()
		end := f.start
		if item < len(itemEnds) {
			end = itemEnds[item]
		}
		if k+1 < len(p.frags) {
			if next := p.frags[k+1].start; next.Item() == item && next < end {
				end = next
			}
		}
		if end > f.start {
			f.width = uint64(end - f.start)
		}
	}

	var tocOffset uint64
	for k := range p.frags {
		f := &p.frags[k]
		if k > 0 && p.frags[k-1].toc != f.toc {
			tocOffset = 0
		}
		f.tocOffset = tocOffset
		f.bookOffset = p.bookWidth
		tocOffset += f.width
		p.bookWidth += f.width
		p.entries[f.toc] += f.width
	}
	for k := range p.frags {
		p.frags[k].tocWidth = p.entries[p.frags[k].toc]
	}
	return p
}

// locate returns the index of the last fragment starting at or before a,
// or -1 when a precedes every fragment.
func (p *progressIndex) locate(a Address) int {
	return sort.Search(len(p.frags), func(i int) bool {
		return p.frags[i].start > a
	}) - 1
}

// tocIndexFor returns the TOC entry owning a. Addresses before the first
// fragment belong to entry 0.
func (p *progressIndex) tocIndexFor(a Address) int {
	k := p.locate(a)
	if k < 0 {
		return 0
	}
	return p.frags[k].toc
}

// position locates a inside its fragment. The offset into a fragment never
// exceeds the fragment's width, so positions are monotonic in a.
func (p *progressIndex) position(a Address) Position {
	k := p.locate(a)
	if k < 0 {
		pos := Position{BookWidth: p.bookWidth}
		if len(p.entries) > 0 {
			pos.EntryWidth = p.entries[0]
		}
		return pos
	}
	f := p.frags[k]
	delta := min(uint64(a-f.start), f.width)
	return Position{
		TOCIndex:    f.toc,
		EntryOffset: f.tocOffset + delta,
		EntryWidth:  f.tocWidth,
		BookOffset:  f.bookOffset + delta,
		BookWidth:   p.bookWidth,
	}
}

// progressFor returns the whole-book offset of a and the book's width.
func (p *progressIndex) progressFor(a Address) (uint64, uint64) {
	pos := p.position(a)
	return pos.BookOffset, pos.BookWidth
}

// entryWidth returns the total width attributed to TOC entry i.
func (p *progressIndex) entryWidth(i int) uint64 {
	if i < 0 || i >= len(p.entries) {
		return 0
	}
	return p.entries[i]
}
