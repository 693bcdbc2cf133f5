package epubdoc

import "testing"

func TestMakeAddress(t *testing.T) {
	if got := MakeAddress(0, 0); got != 0 {
		t.Errorf("MakeAddress(0, 0) = %d, want 0", got)
	}
	a := MakeAddress(0x12, 0x34)
	if a.Item() != 0x12 {
		t.Errorf("Item() = %#x, want 0x12", a.Item())
	}
	if a.Offset() != 0x34 {
		t.Errorf("Offset() = %#x, want 0x34", a.Offset())
	}
}

func TestAddress_Add(t *testing.T) {
	a := MakeAddress(7, 10).Add(25)
	if a.Item() != 7 {
		t.Errorf("Item() = %d, want 7", a.Item())
	}
	if a.Offset() != 35 {
		t.Errorf("Offset() = %d, want 35", a.Offset())
	}
}

func TestAddress_Ordering(t *testing.T) {
	if !(MakeAddress(0, 999999) < MakeAddress(1, 0)) {
		t.Error("an offset in item 0 should order before the start of item 1")
	}
	if !(MakeAddress(3, 4) < MakeAddress(3, 5)) {
		t.Error("offsets within an item should order naturally")
	}
}

func TestAddress_String(t *testing.T) {
	tests := []struct {
		addr Address
		want string
	}{
		{0, "00-0000"},
		{MakeAddress(0x12, 0x34), "12-0034"},
		{MakeAddress(0xab, 0xcdef), "ab-cdef"},
	}
	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEncodeDecodeAddress(t *testing.T) {
	addrs := []Address{
		0,
		MakeAddress(0, 1),
		MakeAddress(1, 0),
		MakeAddress(0x12, 0x34),
		MakeAddress(0xffffffff, 0xffffffff),
	}
	for _, a := range addrs {
		s := EncodeAddress(a)
		if len(s) != 16 {
			t.Errorf("EncodeAddress(%v) = %q, want 16 characters", a, s)
		}
		if got := DecodeAddress(s); got != a {
			t.Errorf("DecodeAddress(EncodeAddress(%v)) = %v", a, got)
		}
	}

	if got := EncodeAddress(MakeAddress(0x12, 0x34)); got != "0000001200000034" {
		t.Errorf("EncodeAddress = %q, want %q", got, "0000001200000034")
	}
}

func TestDecodeAddress_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "12-0034"},
		{"fifteen digits", "000000120000003"},
		{"seventeen digits", "00000012000000340"},
		{"non-hex", "zzzzzzzzzzzzzzzz"},
		{"signed", "+000001200000034"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeAddress(tt.input); got != 0 {
				t.Errorf("DecodeAddress(%q) = %v, want zero address", tt.input, got)
			}
		})
	}
}

func TestDecodeAddress_UpperCase(t *testing.T) {
	if got := DecodeAddress("000000AB0000CDEF"); got != MakeAddress(0xab, 0xcdef) {
		t.Errorf("DecodeAddress = %v, want %v", got, MakeAddress(0xab, 0xcdef))
	}
}
