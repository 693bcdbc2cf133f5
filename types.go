package epubdoc

// Metadata holds the Dublin Core fields of the package document.
type Metadata struct {
	// Version is the ePub version from the package element ("2.0", "3.0").
	Version string

	// Title is the first non-empty dc:title.
	Title string

	// Authors lists every non-empty dc:creator in document order.
	Authors []string

	// Language is the first dc:language (a BCP 47 tag).
	Language string

	// Identifier is the package's unique identifier (ISBN, UUID, URI).
	Identifier string
}

// NavPoint is one node of a parsed navigation tree, before flattening.
type NavPoint struct {
	// Label is the display text.
	Label string

	// Path is the archive path of the link target, without fragment.
	// Empty for label-only entries.
	Path string

	// Fragment is the element id after '#', if any.
	Fragment string

	// Children are the nested entries.
	Children []NavPoint
}

// TOCEntry is one entry of the flattened table of contents.
type TOCEntry struct {
	// Label is the display text of the entry.
	Label string

	// Indent is the nesting depth in the navigation tree (0 = top level).
	Indent int

	// Item is the index of the content item the entry points into.
	Item int

	// Fragment is the element id inside the item, if any.
	Fragment string

	// addr is the resolved start address.
	addr Address
}

// Position describes where an address falls in the table of contents and
// in the book as a whole.
type Position struct {
	// TOCIndex is the entry owning the address.
	TOCIndex int

	// EntryOffset and EntryWidth locate the address inside its TOC entry.
	EntryOffset uint64
	EntryWidth  uint64

	// BookOffset and BookWidth locate the address inside the whole book.
	BookOffset uint64
	BookWidth  uint64
}

// Percent is the whole-book progress, 0 to 100. An empty book reports 100.
func (p Position) Percent() int {
	return percent(p.BookOffset, p.BookWidth)
}

// EntryPercent is the progress through the owning TOC entry.
func (p Position) EntryPercent() int {
	return percent(p.EntryOffset, p.EntryWidth)
}

func percent(pos, width uint64) int {
	if width == 0 {
		return 100
	}
	if pos >= width {
		return 100
	}
	return int(pos * 100 / width)
}
