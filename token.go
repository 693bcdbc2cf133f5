package epubdoc

import "strings"

// TokenKind identifies the variant carried by a Token.
type TokenKind uint8

const (
	// TextToken is running body text. A TextToken with empty Text marks a
	// paragraph or section break.
	TextToken TokenKind = iota
	// HeaderToken is the text of an h1-h6 element.
	HeaderToken
	// ListItemToken is the text of a list item; Level holds its nesting.
	ListItemToken
	// PreformattedToken is text from a pre element with whitespace kept.
	PreformattedToken
	// ImageToken references an image; Path holds its archive path.
	ImageToken
)

func (k TokenKind) String() string {
	switch k {
	case TextToken:
		return "text"
	case HeaderToken:
		return "header"
	case ListItemToken:
		return "list-item"
	case PreformattedToken:
		return "pre"
	case ImageToken:
		return "image"
	default:
		return "unknown"
	}
}

// Token is one semantic unit of content and the address where it starts.
type Token struct {
	Kind  TokenKind
	Addr  Address
	Text  string
	Path  string
	Level int

	// Continued marks a list item run that is not the first of its item,
	// such as a second paragraph inside one li.
	Continued bool
}

// IsSectionBreak reports whether t is the blank token separating sections.
func (t Token) IsSectionBreak() bool {
	return t.Kind == TextToken && t.Text == ""
}

// String renders the token as a line of plain text. List items are prefixed
// with an indentation marker for their nesting level.
func (t Token) String() string {
	switch t.Kind {
	case ImageToken:
		return "[image: " + t.Path + "]"
	case ListItemToken:
		return listMarker(t.Level, t.Continued) + t.Text
	default:
		return t.Text
	}
}

func listMarker(level int, continued bool) string {
	if level < 1 {
		level = 1
	}
	if continued {
		return strings.Repeat("  ", level)
	}
	return strings.Repeat("  ", level-1) + "- "
}

// TextWidth is the number of address units a span of text occupies: the count
// of code points other than space, tab, CR and LF.
//
// Persisted addresses depend on this function. It must never change.
func TextWidth(s string) uint32 {
	var n uint32
	for _, r := range s {
		if !isSpace(r) {
			n++
		}
	}
	return n
}

// Width returns the width of a token's text; non-text tokens have width 0.
func (t Token) Width() uint32 {
	if t.Kind == ImageToken {
		return 0
	}
	return TextWidth(t.Text)
}

// span is how far a token moves the address cursor. Images occupy one unit
// so that each is individually addressable.
func (t Token) span() uint32 {
	if t.Kind == ImageToken {
		return 1
	}
	return t.Width()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
