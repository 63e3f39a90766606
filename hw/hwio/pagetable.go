package hwio

import "fmt"

// pageTable is a two-level lookup table: 256 pages of 256 slots each. Pages
// are allocated on first insertion.
type pageTable struct {
	pages [256]*[256]BankIO8
}

func (p *pageTable) Search(addr uint16) BankIO8 {
	pg := p.pages[addr>>8]
	if pg == nil {
		return nil
	}
	return pg[addr&0xFF]
}

// InsertRange maps io on [begin, end]. Overlapping an existing mapping is an
// error, and nothing is inserted in that case.
func (p *pageTable) InsertRange(begin, end uint16, io BankIO8) error {
	if end < begin {
		return fmt.Errorf("invalid range %04X-%04X", begin, end)
	}
	for a := uint32(begin); a <= uint32(end); a++ {
		if p.Search(uint16(a)) != nil {
			return fmt.Errorf("range %04X-%04X overlaps existing mapping at %04X", begin, end, a)
		}
	}
	for a := uint32(begin); a <= uint32(end); a++ {
		pg := p.pages[a>>8]
		if pg == nil {
			pg = new([256]BankIO8)
			p.pages[a>>8] = pg
		}
		pg[a&0xFF] = io
	}
	return nil
}

func (p *pageTable) RemoveRange(begin, end uint16) {
	for a := uint32(begin); a <= uint32(end); a++ {
		if pg := p.pages[a>>8]; pg != nil {
			pg[a&0xFF] = nil
		}
	}
}
