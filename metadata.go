package epubdoc

import "strings"

// extractMetadata converts the raw Dublin Core elements into Metadata.
func extractMetadata(pkg *opfPackage) Metadata {
	md := Metadata{Version: pkg.Version}
	om := &pkg.Metadata

	md.Title = firstValue(om.Titles)
	md.Language = firstValue(om.Languages)
	for _, c := range om.Creators {
		if v := strings.TrimSpace(c.Value); v != "" {
			md.Authors = append(md.Authors, v)
		}
	}

	// The identifier named by unique-identifier wins; otherwise the first.
	for _, id := range om.Identifiers {
		if pkg.UniqueIdentifier != "" && id.ID == pkg.UniqueIdentifier {
			md.Identifier = strings.TrimSpace(id.Value)
			break
		}
	}
	if md.Identifier == "" {
		md.Identifier = firstValue(om.Identifiers)
	}
	return md
}

func firstValue(elems []opfDCElement) string {
	for _, e := range elems {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v
		}
	}
	return ""
}
