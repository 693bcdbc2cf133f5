package epubdoc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// containerXML models META-INF/container.xml, which locates the package
// document.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

const (
	containerPath   = "META-INF/container.xml"
	packageMimeType = "application/oebps-package+xml"
)

// findPackagePath returns the archive path of the OPF package document.
// container.xml is preferred; without it the first ".opf" entry is used.
func findPackagePath(a *zipArchive) (string, error) {
	if a.find(containerPath) == nil {
		return scanForPackage(a)
	}

	data, err := a.readEntry(containerPath)
	if err != nil {
		return "", fmt.Errorf("epubdoc: read container.xml: %w", err)
	}
	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epubdoc: parse container.xml: %w: %w", err, ErrInvalidEPub)
	}

	var fallback string
	for _, rf := range c.RootFiles {
		p := strings.TrimSpace(rf.FullPath)
		if p == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), packageMimeType) {
			return p, nil
		}
		if fallback == "" {
			fallback = p
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("epubdoc: container.xml names no package document: %w", ErrInvalidEPub)
	}
	return fallback, nil
}

func scanForPackage(a *zipArchive) (string, error) {
	for _, f := range a.zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("epubdoc: no package document in archive: %w", ErrInvalidEPub)
}
