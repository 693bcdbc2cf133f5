package epubdoc

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// elementRole describes how the token walker treats an element on entry and
// exit. Elements missing from elementRoles are inline.
type elementRole uint8

// roleBlock forces a line break before and after the element, roleLineBreak
// one where it appears. roleSection is a section break, or only a line break
// inside lists and tables. The content of roleSkip elements is ignored.
const (
	roleInline elementRole = iota
	roleBlock
	roleLineBreak
	roleSection
	roleHeader
	roleList
	rolePre
	roleTable
	roleRow
	roleCell
	roleImage
	roleSkip
)

var elementRoles = map[atom.Atom]elementRole{
	atom.Address:    roleBlock,
	atom.Article:    roleBlock,
	atom.Aside:      roleBlock,
	atom.Caption:    roleBlock,
	atom.Center:     roleBlock,
	atom.Dd:         roleBlock,
	atom.Details:    roleBlock,
	atom.Dl:         roleBlock,
	atom.Dt:         roleBlock,
	atom.Fieldset:   roleBlock,
	atom.Figcaption: roleBlock,
	atom.Figure:     roleBlock,
	atom.Footer:     roleBlock,
	atom.Form:       roleBlock,
	atom.Header:     roleBlock,
	atom.Hr:         roleBlock,
	atom.Li:         roleBlock,
	atom.Main:       roleBlock,
	atom.Nav:        roleBlock,
	atom.Section:    roleBlock,
	atom.Summary:    roleBlock,

	atom.Br: roleLineBreak,

	atom.P:          roleSection,
	atom.Div:        roleSection,
	atom.Blockquote: roleSection,

	atom.H1: roleHeader,
	atom.H2: roleHeader,
	atom.H3: roleHeader,
	atom.H4: roleHeader,
	atom.H5: roleHeader,
	atom.H6: roleHeader,

	atom.Ol: roleList,
	atom.Ul: roleList,

	atom.Pre: rolePre,

	atom.Table: roleTable,
	atom.Tr:    roleRow,
	atom.Td:    roleCell,
	atom.Th:    roleCell,

	atom.Img:   roleImage,
	atom.Image: roleImage,

	atom.Head:     roleSkip,
	atom.Script:   roleSkip,
	atom.Style:    roleSkip,
	atom.Template: roleSkip,
	atom.Title:    roleSkip,
}

func roleOf(n *html.Node) elementRole {
	return elementRoles[n.DataAtom]
}

// rawKind tags the intermediate tokens produced by the walk, before
// coalescing.
type rawKind uint8

const (
	rawText rawKind = iota
	rawImage
	rawSpace   // table cell separator
	rawBreak   // line break, never survives coalescing
	rawSection // section separator
)

type rawToken struct {
	kind  rawKind
	text  TokenKind // category of rawText
	addr  Address
	value string
	level int
	cont  bool // list item run after the first of its item
}

// markupWalker carries the traversal state of one content item.
type markupWalker struct {
	basePath string
	cursor   Address

	listDepth   int
	preDepth    int
	headerDepth int
	tableDepth  int

	// lineHasContent is set once text or an image lands on the current line.
	lineHasContent bool
	// itemHasText is set once the innermost open li has emitted text.
	itemHasText bool

	raw []rawToken

	// pendingIDs are bound to the address of the next emitted token.
	pendingIDs []string
	anchors    map[string]Address
}

// ParseMarkup converts one content document into tokens. itemPath is the
// archive path of the document, used to resolve image links; start is the
// address of its first offset. The returned map binds element ids to the
// address of the first token inside or after the element.
//
// The HTML parser runs in its error-recovering mode, so malformed documents
// still yield tokens; an error is returned only when r cannot be read.
func ParseMarkup(r io.Reader, itemPath string, start Address) ([]Token, map[string]Address, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("epubdoc: read %s: %w", itemPath, err)
	}
	doc, err := html.Parse(bytes.NewReader(normalizeSelfClosingSkipTags(stripBOM(data))))
	if err != nil {
		return nil, nil, fmt.Errorf("epubdoc: parse %s: %w", itemPath, err)
	}

	root := findElement(doc, atom.Body)
	if root == nil {
		root = doc
	}

	w := &markupWalker{
		basePath: itemPath,
		cursor:   start,
		anchors:  make(map[string]Address),
	}
	w.collectID(root)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	// Ids with nothing after them point at the end of the item.
	w.bindPending()

	return coalesce(w.raw), w.anchors, nil
}

func (w *markupWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	role := roleOf(n)
	if role == roleSkip {
		return
	}
	w.collectID(n)
	if n.DataAtom == atom.Li {
		outer := w.itemHasText
		w.itemHasText = false
		defer func() { w.itemHasText = outer }()
	}
	w.enter(n, role)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.exit(role)
}

func (w *markupWalker) enter(n *html.Node, role elementRole) {
	switch role {
	case roleBlock, roleLineBreak:
		w.lineBreak()
	case roleSection:
		w.sectionOrBreak()
	case roleHeader:
		w.section()
		w.headerDepth++
	case roleList:
		if w.listDepth == 0 {
			w.section()
		} else {
			w.lineBreak()
		}
		w.listDepth++
	case rolePre:
		w.section()
		w.preDepth++
	case roleTable:
		if w.tableDepth == 0 {
			w.section()
		} else {
			w.lineBreak()
		}
		w.tableDepth++
	case roleImage:
		w.image(n)
	}
}

func (w *markupWalker) exit(role elementRole) {
	switch role {
	case roleBlock:
		w.lineBreak()
	case roleSection:
		w.sectionOrBreak()
	case roleHeader:
		w.headerDepth--
		w.section()
	case roleList:
		w.listDepth--
		if w.listDepth == 0 {
			w.section()
		} else {
			w.lineBreak()
		}
	case rolePre:
		w.preDepth--
		w.section()
	case roleTable:
		w.tableDepth--
		if w.tableDepth == 0 {
			w.section()
		} else {
			w.lineBreak()
		}
	case roleRow:
		w.lineBreak()
	case roleCell:
		if w.lineHasContent {
			w.raw = append(w.raw, rawToken{kind: rawSpace, addr: w.cursor})
		}
	}
}

// sectionOrBreak is used by paragraphs: inside list items and table cells a
// paragraph only starts a new line.
func (w *markupWalker) sectionOrBreak() {
	if w.listDepth > 0 || w.tableDepth > 0 {
		w.lineBreak()
		return
	}
	w.section()
}

func (w *markupWalker) lineBreak() {
	if !w.lineHasContent {
		return
	}
	w.raw = append(w.raw, rawToken{kind: rawBreak, addr: w.cursor})
	w.lineHasContent = false
}

func (w *markupWalker) section() {
	w.raw = append(w.raw, rawToken{kind: rawSection, addr: w.cursor})
	w.lineHasContent = false
}

func (w *markupWalker) text(data string) {
	var (
		value string
		kind  TokenKind
	)
	if w.preDepth > 0 {
		value = strings.ReplaceAll(data, "\r", "")
		kind = PreformattedToken
	} else {
		value = collapseWhitespace(data)
		if !w.lineHasContent {
			value = strings.TrimLeft(value, " ")
		}
		switch {
		case w.headerDepth > 0:
			kind = HeaderToken
		case w.listDepth > 0:
			kind = ListItemToken
		default:
			kind = TextToken
		}
	}
	if value == "" {
		return
	}

	w.bindPending()
	w.raw = append(w.raw, rawToken{
		kind:  rawText,
		text:  kind,
		addr:  w.cursor,
		value: value,
		level: w.listDepth,
		cont:  kind == ListItemToken && w.itemHasText,
	})
	if kind == ListItemToken {
		w.itemHasText = true
	}
	w.cursor = w.cursor.Add(TextWidth(data))
	w.lineHasContent = true
}

func (w *markupWalker) image(n *html.Node) {
	src := getAttr(n, "", "src")
	if src == "" {
		src = getAttr(n, "xlink", "href")
	}
	if src == "" {
		src = getAttr(n, "", "href")
	}
	if src == "" || hasURIScheme(src) {
		return
	}
	resolved := resolveRelativePath(w.basePath, src)
	if resolved == "" {
		return
	}

	w.bindPending()
	w.raw = append(w.raw, rawToken{kind: rawImage, addr: w.cursor, value: resolved})
	w.cursor = w.cursor.Add(1)
	w.lineHasContent = true
}

func (w *markupWalker) collectID(n *html.Node) {
	if id := strings.TrimSpace(getAttr(n, "", "id")); id != "" {
		w.pendingIDs = append(w.pendingIDs, id)
	}
}

func (w *markupWalker) bindPending() {
	for _, id := range w.pendingIDs {
		if _, ok := w.anchors[id]; !ok {
			w.anchors[id] = w.cursor
		}
	}
	w.pendingIDs = w.pendingIDs[:0]
}

// coalescer merges runs of raw text of the same category into tokens and
// turns section separators into blank text tokens.
type coalescer struct {
	out     []Token
	run     Token
	buf     strings.Builder
	open    bool
	section bool
}

func coalesce(raw []rawToken) []Token {
	var c coalescer
	for _, r := range raw {
		switch r.kind {
		case rawText:
			if c.open && c.run.Kind == r.text && c.run.Level == r.level {
				c.appendText(r.value)
				continue
			}
			c.flush()
			c.open = true
			c.run = Token{Kind: r.text, Addr: r.addr, Level: r.level, Continued: r.cont}
			c.buf.WriteString(r.value)
		case rawSpace:
			if c.open && c.run.Kind != PreformattedToken {
				c.appendText(" ")
			}
		case rawBreak:
			c.flush()
		case rawSection:
			c.flush()
			c.section = true
		case rawImage:
			c.flush()
			c.emit(Token{Kind: ImageToken, Addr: r.addr, Path: r.value})
		}
	}
	c.flush()
	return c.out
}

func (c *coalescer) appendText(s string) {
	if c.run.Kind != PreformattedToken && strings.HasPrefix(s, " ") && strings.HasSuffix(c.buf.String(), " ") {
		s = s[1:]
	}
	c.buf.WriteString(s)
}

func (c *coalescer) flush() {
	if !c.open {
		return
	}
	c.open = false
	text := c.buf.String()
	c.buf.Reset()
	if c.run.Kind != PreformattedToken {
		text = strings.Trim(text, " ")
	}
	if text == "" {
		return
	}
	t := c.run
	t.Text = text
	if t.Kind != ListItemToken {
		t.Level = 0
	}
	c.emit(t)
}

// emit appends t, preceded by a blank token when a section separator was
// seen since the last emitted content.
func (c *coalescer) emit(t Token) {
	if c.section && len(c.out) > 0 && !c.out[len(c.out)-1].IsSectionBreak() {
		c.out = append(c.out, Token{Kind: TextToken, Addr: t.Addr})
	}
	c.section = false
	c.out = append(c.out, t)
}

// collapseWhitespace replaces every run of space, tab, CR and LF with a
// single space. Leading and trailing runs are kept as one space so inline
// elements keep their spacing.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		b.WriteRune(r)
		inSpace = false
	}
	return b.String()
}

var selfClosingSkipTagPattern = regexp.MustCompile(`(?is)<(script|style|title)\b([^>]*)/>`)

// normalizeSelfClosingSkipTags expands XHTML "<script/>" style tags. The
// HTML parser would otherwise treat the rest of the document as their body.
func normalizeSelfClosingSkipTags(data []byte) []byte {
	if !selfClosingSkipTagPattern.Match(data) {
		return data
	}
	return selfClosingSkipTagPattern.ReplaceAll(data, []byte(`<$1$2></$1>`))
}

// findElement performs a depth-first search for a node with the given atom.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// getAttr returns the attribute value for key. namespace selects foreign
// attributes such as xlink:href, which the parser may store either with a
// Namespace field or as a prefixed key.
func getAttr(n *html.Node, namespace, key string) string {
	for _, a := range n.Attr {
		if namespace == "" {
			if a.Namespace == "" && a.Key == key {
				return a.Val
			}
			continue
		}
		if (a.Namespace == namespace && a.Key == key) || a.Key == namespace+":"+key {
			return a.Val
		}
	}
	return ""
}

// hasURIScheme reports whether s starts with a URI scheme such as "http:"
// or "data:". Single letters are treated as relative paths.
func hasURIScheme(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !((s[0] >= 'A' && s[0] <= 'Z') || (s[0] >= 'a' && s[0] <= 'z')) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ':' {
			return i > 1
		}
		if !(c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return false
}
