package epubdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// buildTestZipBytes writes files into a zip archive, "mimetype" first when
// present and the rest in name order.
func buildTestZipBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := files["mimetype"]; ok {
		names = append([]string{"mimetype"}, names...)
	}

	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildTestZip: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, files[name]); err != nil {
			t.Fatalf("buildTestZip: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildTestZip: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildTestZip returns a zipArchive over an in-memory archive.
func buildTestZip(t *testing.T, files map[string]string) *zipArchive {
	t.Helper()
	data := buildTestZipBytes(t, files)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildTestZip: open reader: %v", err)
	}
	return newZipArchive(zr, defaultMaxEntrySize)
}

// openTestBook opens files as an in-memory ePub and fails the test on error.
func openTestBook(t *testing.T, files map[string]string, opts ...Option) *Book {
	t.Helper()
	data := buildTestZipBytes(t, files)
	b, err := NewReader(bytes.NewReader(data), int64(len(data)), opts...)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// buildTestEPubFile writes files to a temporary .epub and returns its path.
func buildTestEPubFile(t *testing.T, files map[string]string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buildTestZipBytes(t, files), 0644); err != nil {
		t.Fatalf("buildTestEPubFile: write file: %v", err)
	}
	return fp
}

// xhtml wraps body markup in a minimal XHTML document.
func xhtml(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>t</title></head>
<body>` + body + `</body></html>`
}

// testBookFiles builds an ePub 2 file set with one content item per body,
// named OEBPS/ch1.xhtml, OEBPS/ch2.xhtml, ... and no navigation document.
// extraManifest is inserted into the manifest verbatim; spineToc sets the
// spine toc attribute when non-empty.
func testBookFiles(extraManifest, spineToc string, bodies ...string) map[string]string {
	var manifest, spine strings.Builder
	files := map[string]string{
		"mimetype":               expectedMimetype,
		"META-INF/container.xml": testContainerXML,
	}
	for i, body := range bodies {
		id := fmt.Sprintf("ch%d", i+1)
		href := id + ".xhtml"
		fmt.Fprintf(&manifest, `<item id="%s" href="%s" media-type="application/xhtml+xml"/>`+"\n", id, href)
		fmt.Fprintf(&spine, `<itemref idref="%s"/>`+"\n", id)
		files["OEBPS/"+href] = xhtml(body)
	}
	tocAttr := ""
	if spineToc != "" {
		tocAttr = fmt.Sprintf(` toc="%s"`, spineToc)
	}
	files["OEBPS/content.opf"] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package version="2.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Doe</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="bookid">urn:uuid:1234</dc:identifier>
  </metadata>
  <manifest>
%s%s  </manifest>
  <spine%s>
%s  </spine>
</package>`, manifest.String(), extraManifest, tocAttr, spine.String())
	return files
}

// ncxNavPoint renders one NCX navPoint; children are pre-rendered navPoints.
func ncxNavPoint(label, src string, children ...string) string {
	return fmt.Sprintf(`<navPoint><navLabel><text>%s</text></navLabel><content src="%s"/>%s</navPoint>`,
		label, src, strings.Join(children, ""))
}

func ncxDocument(points ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>` + strings.Join(points, "\n") + `</navMap>
</ncx>`
}

const ncxManifestItem = `<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` + "\n"
