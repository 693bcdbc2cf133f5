// Package epubdoc turns an ePub into an addressable, seekable stream of
// content tokens, with a table of contents and whole-book progress index
// whose positions stay valid across sessions.
//
// # Opening a book
//
// Use [Open] for a file path or [NewReader] for an [io.ReaderAt]:
//
//	book, err := epubdoc.Open("book.epub", epubdoc.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Close()
//
// Opening parses the package document and the table of contents and sizes
// every content item. Problems confined to one item or to the navigation
// metadata do not fail opening; they are logged and listed by
// [Book.Warnings].
//
// # Addresses
//
// An [Address] packs a content item index and an offset inside the item
// into one uint64 whose integer order is reading order. Offsets count
// non-whitespace code points ([TextWidth]); images occupy one unit. Persist
// positions with [EncodeAddress] and restore them with [DecodeAddress],
// which maps malformed input to the zero address:
//
//	it := book.Iterator(epubdoc.DecodeAddress(saved))
//	for tok, ok := it.Next(); ok; tok, ok = it.Next() {
//	    fmt.Println(tok)
//	}
//
// # Table of contents and progress
//
// [Book.TableOfContents] returns the flattened entries. [Book.TOCPosition]
// maps any address to its entry and a whole-book percentage; entries that
// span several content items are tracked contiguously.
//
// # Error Handling
//
// The package defines sentinel errors for failures that prevent opening:
//   - [ErrDRMProtected] – the file is DRM encrypted
//   - [ErrInvalidEPub] – structural validation failed
//   - [ErrFileNotFound] – a requested file is not in the archive
//   - [ErrNotOpen] – the Book was closed
package epubdoc
