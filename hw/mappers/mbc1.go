package mappers

// MBC1 registers, selected by address bits 13-14 of a write in 0000-7FFF.
//
//	0000-1FFF  RAM enable: 0x?A enables, anything else disables
//	2000-3FFF  ROM bank, low 5 bits (0 is read as 1)
//	4000-5FFF  ROM bank bits 5-6 (mode 0) or RAM bank (mode 1)
//	6000-7FFF  banking mode
func (c *Cartridge) writeMBC1(addr uint16, val uint8) {
	switch addr >> 13 {
	case 0:
		c.ramEnabled = val&0x0F == 0x0A
		modMapper.DebugZ("ram enable").Bool("enabled", c.ramEnabled).End()
	case 1:
		c.romLow = val & 0x1F
		if c.romLow == 0 {
			c.romLow = 1
		}
		modMapper.DebugZ("select rom bank").Int("bank", c.ROMBank()).End()
	case 2:
		c.high = val & 0x03
		modMapper.DebugZ("select upper bank bits").
			Hex8("bits", c.high).
			Int("rom", c.ROMBank()).
			Int("ram", c.RAMBank()).
			End()
	case 3:
		mode := val & 0x01
		if mode == c.mode {
			return
		}
		// The upper bits only ever feed one bank register, so the register
		// we switch away from loses them.
		c.mode = mode
		c.high = 0
		modMapper.DebugZ("select banking mode").Hex8("mode", mode).End()
	}
}

// ROMBank returns the bank mapped at 4000-7FFF.
func (c *Cartridge) ROMBank() int {
	bank := int(c.romLow)
	if c.Kind == KindMBC1 && c.mode == 0 {
		bank |= int(c.high) << 5
	}
	return bank
}

// RAMBank returns the bank mapped at A000-BFFF.
func (c *Cartridge) RAMBank() int {
	if c.Kind == KindMBC1 && c.mode == 1 {
		return int(c.high)
	}
	return 0
}

// Mode returns the MBC1 banking mode latch.
func (c *Cartridge) Mode() uint8 { return c.mode }
