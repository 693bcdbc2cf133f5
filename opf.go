package epubdoc

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// opfPackage is the root <package> element of the OPF document.
type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Titles      []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators    []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages   []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifiers []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ identifier"`
}

type opfDCElement struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

type opfSpineItemRef struct {
	IDRef string `xml:"idref,attr"`
}

const (
	ncxMediaType = "application/x-dtbncx+xml"
)

// contentMediaTypes are the manifest types the markup parser accepts.
var contentMediaTypes = map[string]bool{
	"application/xhtml+xml": true,
	"text/html":             true,
	"text/x-oeb1-document":  true,
}

// parseOPF decodes the package document.
func parseOPF(data []byte) (*opfPackage, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(prepareXML(data), &pkg); err != nil {
		return nil, fmt.Errorf("epubdoc: parse OPF: %w: %w", err, ErrInvalidEPub)
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// manifestIndex resolves manifest hrefs to archive paths.
type manifestIndex struct {
	opfPath string
	items   []opfManifestItem
	byID    map[string]opfManifestItem
}

func newManifestIndex(pkg *opfPackage, opfPath string) *manifestIndex {
	m := &manifestIndex{
		opfPath: opfPath,
		items:   pkg.Manifest.Items,
		byID:    make(map[string]opfManifestItem, len(pkg.Manifest.Items)),
	}
	for _, item := range pkg.Manifest.Items {
		if _, ok := m.byID[item.ID]; !ok {
			m.byID[item.ID] = item
		}
	}
	return m
}

// resolve returns the archive path of a manifest href, dropping any fragment.
func (m *manifestIndex) resolve(href string) string {
	p, _ := splitFragment(href)
	return resolveRelativePath(m.opfPath, p)
}

// byProperty returns the first manifest item, in document order, carrying
// the given properties token.
func (m *manifestIndex) byProperty(prop string) (opfManifestItem, bool) {
	for _, item := range m.items {
		for _, p := range strings.Fields(item.Properties) {
			if p == prop {
				return item, true
			}
		}
	}
	return opfManifestItem{}, false
}

// byMediaType returns the first manifest item with the given media type.
func (m *manifestIndex) byMediaType(mediaType string) (opfManifestItem, bool) {
	for _, item := range m.items {
		if strings.EqualFold(strings.TrimSpace(item.MediaType), mediaType) {
			return item, true
		}
	}
	return opfManifestItem{}, false
}

// spineEntry is one reading-order position after manifest resolution.
type spineEntry struct {
	IDRef string
	Path  string // empty when the item cannot be parsed
	// Problem explains an empty Path.
	Problem string
}

// buildSpine resolves every itemref through the manifest.
func buildSpine(pkg *opfPackage, m *manifestIndex) []spineEntry {
	entries := make([]spineEntry, 0, len(pkg.Spine.ItemRefs))
	for _, ref := range pkg.Spine.ItemRefs {
		e := spineEntry{IDRef: ref.IDRef}
		item, ok := m.byID[ref.IDRef]
		switch {
		case !ok:
			e.Problem = "not in manifest"
		case !contentMediaTypes[strings.ToLower(strings.TrimSpace(item.MediaType))]:
			e.Problem = "unsupported media type " + item.MediaType
		default:
			if e.Path = m.resolve(item.Href); e.Path == "" {
				e.Problem = "unsafe href " + item.Href
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// itemName derives a display name from a content path: the file name
// without its extension.
func itemName(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
