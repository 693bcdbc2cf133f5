package epubdoc

import (
	"regexp"
	"strings"
)

// entityNameToNumeric maps HTML named entities to numeric references.
// encoding/xml and xmlquery reject HTML entities, which real-world OPF and
// NCX files use anyway.
var entityNameToNumeric = map[string][]byte{
	"nbsp": []byte("&#160;"), "mdash": []byte("&#8212;"), "ndash": []byte("&#8211;"),
	"hellip": []byte("&#8230;"),
	"lsquo":  []byte("&#8216;"), "rsquo": []byte("&#8217;"),
	"ldquo": []byte("&#8220;"), "rdquo": []byte("&#8221;"),
	"copy": []byte("&#169;"), "reg": []byte("&#174;"), "trade": []byte("&#8482;"),
	"bull": []byte("&#8226;"), "middot": []byte("&#183;"),
	"eacute": []byte("&#233;"), "egrave": []byte("&#232;"),
	"aacute": []byte("&#225;"), "agrave": []byte("&#224;"),
	"ouml": []byte("&#246;"), "uuml": []byte("&#252;"), "auml": []byte("&#228;"),
	"ccedil": []byte("&#231;"), "ntilde": []byte("&#241;"),
	"laquo": []byte("&#171;"), "raquo": []byte("&#187;"),
	"sect": []byte("&#167;"), "para": []byte("&#182;"), "deg": []byte("&#176;"),
}

var htmlEntityPattern = regexp.MustCompile(
	`(?i)&(nbsp|mdash|ndash|hellip|lsquo|rsquo|ldquo|rdquo|copy|reg|trade|bull|middot|` +
		`eacute|egrave|aacute|agrave|ouml|uuml|auml|ccedil|ntilde|laquo|raquo|sect|para|deg);`)

// preprocessHTMLEntities rewrites known HTML named entities to numeric
// character references, case-insensitively.
func preprocessHTMLEntities(data []byte) []byte {
	return htmlEntityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		if replacement, ok := entityNameToNumeric[name]; ok {
			return replacement
		}
		return match
	})
}

// prepareXML applies the clean-ups every metadata document gets before
// decoding.
func prepareXML(data []byte) []byte {
	return preprocessHTMLEntities(stripBOM(data))
}
