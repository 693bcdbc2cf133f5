package epubdoc

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// defaultMaxEntrySize is the maximum decompressed size accepted for a single
// archive entry unless overridden with WithMaxEntrySize.
const defaultMaxEntrySize int64 = 256 * 1024 * 1024

// archive is the read-only container capability the book is built on.
// Paths are archive-internal, forward-slash separated.
type archive interface {
	readEntry(name string) ([]byte, error)
}

// zipArchive indexes a zip.Reader for exact and case-insensitive lookups.
type zipArchive struct {
	zr       *zip.Reader
	exact    map[string]*zip.File
	lower    map[string]*zip.File
	maxEntry int64
}

func newZipArchive(zr *zip.Reader, maxEntry int64) *zipArchive {
	a := &zipArchive{
		zr:       zr,
		exact:    make(map[string]*zip.File, len(zr.File)),
		lower:    make(map[string]*zip.File, len(zr.File)),
		maxEntry: maxEntry,
	}
	for _, f := range zr.File {
		if _, ok := a.exact[f.Name]; !ok {
			a.exact[f.Name] = f
		}
		l := strings.ToLower(f.Name)
		if _, ok := a.lower[l]; !ok {
			a.lower[l] = f
		}
	}
	return a
}

// find looks up an entry by exact name, then case-insensitively.
func (a *zipArchive) find(name string) *zip.File {
	if f, ok := a.exact[name]; ok {
		return f
	}
	if f, ok := a.lower[strings.ToLower(name)]; ok {
		return f
	}
	return nil
}

func (a *zipArchive) readEntry(name string) ([]byte, error) {
	f := a.find(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return readZipFileWithLimit(f, a.maxEntry)
}

// resolveRelativePath resolves href relative to the directory of basePath.
// Both are archive-internal paths. The result is cleaned; an empty string is
// returned when href is absolute or the result escapes the archive root.
func resolveRelativePath(basePath, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	cleaned := path.Clean(path.Join(path.Dir(basePath), href))
	if !isSafePath(cleaned) {
		return ""
	}
	return cleaned
}

// isSafePath reports whether p stays inside the archive root.
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// splitFragment splits "file.xhtml#frag" into its path and fragment id.
func splitFragment(href string) (string, string) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i], href[i+1:]
	}
	return href, ""
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// readZipFileWithLimit reads a whole entry, refusing unsafe names and
// entries whose declared or actual decompressed size exceeds limit.
func readZipFileWithLimit(f *zip.File, limit int64) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("epubdoc: unsafe zip entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("epubdoc: zip entry %s too large: %d bytes (max %d)", f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epubdoc: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// The declared size can be forged; read one byte past the limit to tell.
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("epubdoc: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("epubdoc: zip entry %s decompressed size exceeds limit (%d bytes)", f.Name, limit)
	}
	return data, nil
}
