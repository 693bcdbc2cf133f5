package epubdoc

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// contentEntry is the cached parse of one spine item. It is filled on first
// access and never invalidated: the archive is read-only.
type contentEntry struct {
	path    string
	problem string
	once    sync.Once
	tokens  []Token
	anchors map[string]Address
	err     error // wraps ErrNoContent when the item yields nothing
}

// contentIndex lazily turns spine items into token sequences.
type contentIndex struct {
	arc     archive
	entries []*contentEntry
	report  *reporter
}

func newContentIndex(arc archive, spine []spineEntry, report *reporter) *contentIndex {
	c := &contentIndex{
		arc:     arc,
		entries: make([]*contentEntry, len(spine)),
		report:  report,
	}
	for i, s := range spine {
		c.entries[i] = &contentEntry{path: s.Path, problem: s.Problem}
		if s.Path == "" {
			report.warn("spine item skipped", "index", i, "idref", s.IDRef, "reason", s.Problem)
		}
	}
	return c
}

// entry returns item i, parsing it on first use.
func (c *contentIndex) entry(i int) *contentEntry {
	e := c.entries[i]
	e.once.Do(func() { c.populate(i, e) })
	return e
}

func (c *contentIndex) populate(i int, e *contentEntry) {
	e.anchors = map[string]Address{}
	if e.path == "" {
		e.err = fmt.Errorf("%w: item %d: %s", ErrNoContent, i, e.problem)
		return
	}
	data, err := c.arc.readEntry(e.path)
	if err != nil {
		c.report.warn("content item unreadable", "index", i, "path", e.path, "error", err)
		e.err = fmt.Errorf("%w: %w", ErrNoContent, err)
		return
	}
	tokens, anchors, err := ParseMarkup(bytes.NewReader(data), e.path, MakeAddress(i, 0))
	if err != nil {
		c.report.warn("content item unparseable", "index", i, "path", e.path, "error", err)
		e.err = fmt.Errorf("%w: %w", ErrNoContent, err)
		return
	}
	e.tokens, e.anchors = tokens, anchors
}

// Err returns why item i produced no tokens, or nil when it parsed. An item
// whose markup holds no text is not an error.
func (c *contentIndex) Err(i int) error {
	if !c.valid(i) {
		return fmt.Errorf("%w: item %d out of range", ErrNoContent, i)
	}
	return c.entry(i).err
}

func (c *contentIndex) valid(i int) bool {
	return i >= 0 && i < len(c.entries)
}

// ItemCount returns the number of spine items.
func (c *contentIndex) ItemCount() int {
	return len(c.entries)
}

// Path returns the archive path of item i, or "" when it is missing.
func (c *contentIndex) Path(i int) string {
	if !c.valid(i) {
		return ""
	}
	return c.entries[i].path
}

// TokenCount returns the number of tokens in item i.
func (c *contentIndex) TokenCount(i int) int {
	if !c.valid(i) {
		return 0
	}
	return len(c.entry(i).tokens)
}

// IsEmpty reports whether item i produced no tokens.
func (c *contentIndex) IsEmpty(i int) bool {
	return c.TokenCount(i) == 0
}

// tokens returns the cached slice without copying; callers must not modify it.
func (c *contentIndex) tokens(i int) []Token {
	if !c.valid(i) {
		return nil
	}
	return c.entry(i).tokens
}

// Tokens returns a copy of item i's tokens.
func (c *contentIndex) Tokens(i int) []Token {
	return slices.Clone(c.tokens(i))
}

// Anchors returns a copy of item i's element id map.
func (c *contentIndex) Anchors(i int) map[string]Address {
	if !c.valid(i) {
		return nil
	}
	return maps.Clone(c.entry(i).anchors)
}

func (c *contentIndex) anchor(i int, id string) (Address, bool) {
	if !c.valid(i) {
		return 0, false
	}
	a, ok := c.entry(i).anchors[id]
	return a, ok
}

// end returns one past the last address occupied by item i.
func (c *contentIndex) end(i int) Address {
	toks := c.tokens(i)
	if len(toks) == 0 {
		return MakeAddress(i, 0)
	}
	last := toks[len(toks)-1]
	return last.Addr.Add(last.span())
}
