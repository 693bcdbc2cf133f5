package epubdoc

import (
	"archive/zip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/zeebo/blake3"
)

// expectedMimetype is the content of the "mimetype" entry of a valid ePub.
const expectedMimetype = "application/epub+zip"

// AddressKey is the record key under which a reading position is usually
// persisted, as produced by EncodeAddress.
const AddressKey = "address"

// Book is an opened ePub: a read-only archive, its lazily parsed content
// items, and the table of contents and progress index built at open time.
//
// A Book is owned by one reading session. Content items are parsed at most
// once even under concurrent access, but the Book is not otherwise safe for
// concurrent use.
type Book struct {
	arc    *zipArchive
	closer io.Closer // non-nil only when created via Open
	open   bool
	id     string

	opfPath  string
	pkg      *opfPackage
	manifest *manifestIndex
	metadata Metadata

	content  *contentIndex
	toc      []TOCEntry
	progress *progressIndex

	report *reporter
}

// Open opens the ePub file at name. The caller must call Close.
func Open(name string, opts ...Option) (*Book, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("epubdoc: open %s: %w", name, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("epubdoc: stat %s: %w", name, err)
	}

	b, err := initBook(f, st.Size(), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	b.closer = f
	return b, nil
}

// NewReader opens an ePub held in r. The caller is responsible for the
// lifetime of r; Close only releases internal state.
func NewReader(r io.ReaderAt, size int64, opts ...Option) (*Book, error) {
	return initBook(r, size, opts)
}

// initBook does everything that can make opening fail. On error nothing of
// the partially built Book escapes.
func initBook(r io.ReaderAt, size int64, opts []Option) (*Book, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epubdoc: open zip: %w", err)
	}

	b := &Book{
		arc:    newZipArchive(zr, o.maxEntrySize),
		report: &reporter{logger: o.logger},
	}
	b.validateMimetype()

	id, err := contentHash(r, size)
	if err != nil {
		return nil, err
	}
	b.id = id

	if b.opfPath, err = findPackagePath(b.arc); err != nil {
		return nil, err
	}
	fontObfuscation, err := checkDRM(b.arc)
	if err != nil {
		return nil, err
	}
	if fontObfuscation {
		b.report.warn("font obfuscation detected; embedded fonts are unusable")
	}

	opfData, err := b.arc.readEntry(b.opfPath)
	if err != nil {
		return nil, fmt.Errorf("epubdoc: read package document: %w: %w", err, ErrInvalidEPub)
	}
	if b.pkg, err = parseOPF(opfData); err != nil {
		return nil, err
	}
	if len(b.pkg.Spine.ItemRefs) == 0 {
		return nil, fmt.Errorf("epubdoc: package document has an empty spine: %w", ErrInvalidEPub)
	}
	b.manifest = newManifestIndex(b.pkg, b.opfPath)
	b.metadata = extractMetadata(b.pkg)
	b.content = newContentIndex(b.arc, buildSpine(b.pkg, b.manifest), b.report)

	b.toc = b.buildTOC()
	b.progress = b.buildProgress()
	b.open = true
	return b, nil
}

// buildProgress sizes every content item, which parses all of them.
func (b *Book) buildProgress() *progressIndex {
	starts := make([]Address, len(b.toc))
	for i, e := range b.toc {
		starts[i] = e.addr
	}
	ends := make([]Address, b.content.ItemCount())
	for i := range ends {
		ends[i] = b.content.end(i)
	}
	return buildProgressIndex(starts, ends)
}

// contentHash identifies a book by the BLAKE3 hash of its archive bytes.
func contentHash(r io.ReaderAt, size int64) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, 0, size)); err != nil {
		return "", fmt.Errorf("epubdoc: hash archive: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// validateMimetype records a warning when the first entry is not a
// "mimetype" file holding application/epub+zip.
func (b *Book) validateMimetype() {
	files := b.arc.zr.File
	if len(files) == 0 || files[0].Name != "mimetype" {
		b.report.warn("first zip entry is not \"mimetype\"")
		return
	}
	data, err := readZipFileWithLimit(files[0], b.arc.maxEntry)
	if err != nil {
		b.report.warn("mimetype entry unreadable", "error", err)
		return
	}
	if string(data) != expectedMimetype {
		b.report.warn("unexpected mimetype", "mimetype", string(data))
	}
}

// Close releases the underlying file when the Book was created with Open.
// Close is idempotent.
func (b *Book) Close() error {
	b.open = false
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// IsOpen reports whether the Book has been opened and not yet closed.
func (b *Book) IsOpen() bool {
	return b != nil && b.open
}

// ID returns the content hash identifying this book, suitable as a key for
// persisted reading positions.
func (b *Book) ID() string {
	return b.id
}

// Metadata returns the Dublin Core metadata.
func (b *Book) Metadata() Metadata {
	md := b.metadata
	md.Authors = append([]string(nil), b.metadata.Authors...)
	return md
}

// Warnings returns the recoverable problems met so far, including those
// found while lazily parsing content items.
func (b *Book) Warnings() []string {
	return b.report.list()
}

// ItemCount returns the number of content items in reading order.
func (b *Book) ItemCount() int {
	return b.content.ItemCount()
}

// ItemPath returns the archive path of content item i, or "" when the item
// is missing from the manifest or not a content document.
func (b *Book) ItemPath(i int) string {
	return b.content.Path(i)
}

// Tokens returns the tokens of content item i, parsing it on first use.
func (b *Book) Tokens(i int) []Token {
	return b.content.Tokens(i)
}

// ItemErr reports why content item i yields no tokens. The error wraps
// ErrNoContent; nil means the item parsed, possibly to nothing.
func (b *Book) ItemErr(i int) error {
	return b.content.Err(i)
}

// Anchors returns the element id to address map of content item i.
func (b *Book) Anchors(i int) map[string]Address {
	return b.content.Anchors(i)
}

// TableOfContents returns the flattened table of contents.
func (b *Book) TableOfContents() []TOCEntry {
	return append([]TOCEntry(nil), b.toc...)
}

// TOCItemAddress returns the start address of TOC entry i, or the zero
// address when i is out of range.
func (b *Book) TOCItemAddress(i int) Address {
	if i < 0 || i >= len(b.toc) {
		return 0
	}
	return b.toc[i].addr
}

// TOCPosition returns the TOC entry owning a and the whole-book progress
// percentage at a.
func (b *Book) TOCPosition(a Address) (int, int) {
	p := b.Locate(a)
	return p.TOCIndex, p.Percent()
}

// Locate returns the full position of a in the TOC and the book.
func (b *Book) Locate(a Address) Position {
	return b.progress.position(a)
}

// Iterator returns a token cursor positioned at a (see Iterator.Seek).
func (b *Book) Iterator(a Address) *Iterator {
	return newIterator(b.content, a)
}

// LoadResource reads an archive entry, typically an image referenced by an
// ImageToken.
func (b *Book) LoadResource(name string) ([]byte, error) {
	if !b.IsOpen() {
		return nil, ErrNotOpen
	}
	return b.arc.readEntry(path.Clean(name))
}
