package hw

const (
	oamEntries = 40
	oamSize    = oamEntries * 4
)

// OAMEntry is a sprite attribute entry.
type OAMEntry struct {
	Y, X uint8 // screen position, plus 16 and 8
	Tile uint8
	Attr uint8 // 7: behind BG, 6: Y flip, 5: X flip, 4: palette
}

const (
	attrBehindBG = 1 << 7
	attrFlipY    = 1 << 6
	attrFlipX    = 1 << 5
	attrPalette  = 1 << 4
)

// OAM is the sprite attribute table, 40 entries of 4 bytes each. Byte idx
// is field idx&3 of entry idx>>2.
type OAM struct {
	Entries [oamEntries]OAMEntry
}

func (o *OAM) field(idx uint8) *uint8 {
	e := &o.Entries[idx>>2]
	switch idx & 3 {
	case 0:
		return &e.Y
	case 1:
		return &e.X
	case 2:
		return &e.Tile
	}
	return &e.Attr
}

func (o *OAM) Read(idx uint8) uint8 {
	if int(idx) >= oamSize {
		return 0xFF
	}
	return *o.field(idx)
}

func (o *OAM) Write(idx, val uint8) {
	if int(idx) >= oamSize {
		return
	}
	*o.field(idx) = val
}
