package epubdoc

import (
	"fmt"
	"strconv"
)

// Address is a position in a book: the high 32 bits hold the content item
// index (spine position), the low 32 bits the offset inside that item.
// Integer order is reading order.
//
// Offsets are counted with TextWidth, so an Address saved by one version of
// this package stays comparable with content parsed by any later version.
type Address uint64

const (
	offsetBits = 32
	offsetMask = 1<<offsetBits - 1

	// encodedAddressLen is the length of the persisted hex form.
	encodedAddressLen = 16
)

// MakeAddress builds the address of offset within content item item.
func MakeAddress(item int, offset uint32) Address {
	return Address(uint64(uint32(item))<<offsetBits | uint64(offset))
}

// Item returns the content item index.
func (a Address) Item() int {
	return int(uint64(a) >> offsetBits)
}

// Offset returns the offset inside the content item.
func (a Address) Offset() uint32 {
	return uint32(uint64(a) & offsetMask)
}

// Add advances the offset by delta. The item index is left untouched;
// overflowing the offset field is the caller's problem.
func (a Address) Add(delta uint32) Address {
	return MakeAddress(a.Item(), a.Offset()+delta)
}

// String renders the address as "XX-YYYY" (item-offset, hex).
func (a Address) String() string {
	return fmt.Sprintf("%02x-%04x", a.Item(), a.Offset())
}

// EncodeAddress returns the persisted form: 16 hex digits, 8 per field.
func EncodeAddress(a Address) string {
	return fmt.Sprintf("%08x%08x", uint32(a.Item()), a.Offset())
}

// DecodeAddress parses the persisted form. Anything that is not exactly 16
// hex digits decodes to the zero address.
func DecodeAddress(s string) Address {
	if len(s) != encodedAddressLen {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	return Address(v)
}
