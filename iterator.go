package epubdoc

// Direction selects which way Iterator.Read moves.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Iterator is a cursor over every token of a book in reading order. Item
// boundaries are invisible to the caller: empty items are skipped.
//
// The cursor sits between two tokens; Next returns the one after it and
// Prev the one before it.
type Iterator struct {
	content *contentIndex
	item    int
	index   int
}

func newIterator(c *contentIndex, a Address) *Iterator {
	it := &Iterator{content: c}
	it.Seek(a)
	return it
}

// Seek moves the cursor before the last token of item a.Item() whose address
// is at most a. When a precedes every token of the item, the cursor moves
// before its first token. Items past the end leave the cursor at the end.
func (it *Iterator) Seek(a Address) {
	it.item, it.index = a.Item(), 0
	if it.item >= it.content.ItemCount() {
		it.item = it.content.ItemCount()
		return
	}
	toks := it.content.tokens(it.item)
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Addr <= a {
			it.index = i
			return
		}
	}
}

// Next returns the token after the cursor and advances past it. ok is false
// at the end of the book.
func (it *Iterator) Next() (Token, bool) {
	for it.item < it.content.ItemCount() {
		toks := it.content.tokens(it.item)
		if it.index < len(toks) {
			t := toks[it.index]
			it.index++
			return t, true
		}
		it.item++
		it.index = 0
	}
	return Token{}, false
}

// Prev returns the token before the cursor and moves back over it. ok is
// false at the start of the book.
func (it *Iterator) Prev() (Token, bool) {
	for {
		if it.index > 0 {
			it.index--
			return it.content.tokens(it.item)[it.index], true
		}
		if it.item == 0 {
			return Token{}, false
		}
		it.item--
		it.index = len(it.content.tokens(it.item))
	}
}

// Read moves one token in direction d.
func (it *Iterator) Read(d Direction) (Token, bool) {
	if d == Backward {
		return it.Prev()
	}
	return it.Next()
}

// Position returns the address of the token Next would return. At the end
// of the book it returns the start of the item past the last one, which Seek
// maps back to the end.
func (it *Iterator) Position() Address {
	peek := it.Clone()
	if t, ok := peek.Next(); ok {
		return t.Addr
	}
	return MakeAddress(it.content.ItemCount(), 0)
}

// Clone returns an independent cursor at the same position.
func (it *Iterator) Clone() *Iterator {
	c := *it
	return &c
}
