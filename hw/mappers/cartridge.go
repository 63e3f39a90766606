package mappers

// Sentinel is the value read from an absent cartridge, or from disabled or
// missing cartridge RAM.
const Sentinel = 0xFF

type Kind uint8

const (
	KindNone Kind = iota
	KindROM
	KindMBC1
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindROM:
		return "rom"
	case KindMBC1:
		return "mbc1"
	}
	return "invalid"
}

// Cartridge is the cartridge mapper. The set of supported mappers is closed
// so a Cartridge is a tagged union: Kind selects which behaviour the access
// methods implement, and which fields are meaningful.
type Cartridge struct {
	Kind Kind
	Name string

	rom []byte
	ram []byte

	// MBC1 state.
	ramEnabled bool
	romLow     uint8 // 5 bits, never 0
	high       uint8 // 2 bits: ROM bank bits 5-6, or RAM bank in mode 1
	mode       uint8 // 0: ROM banking, 1: RAM banking
}

// Reset puts the banking registers back in power-up state.
func (c *Cartridge) Reset() {
	c.ramEnabled = c.Kind == KindROM
	c.romLow = 1
	c.high = 0
	c.mode = 0
}

// Read reads from the ROM area (0000-7FFF). ok is false if the address is
// not backed by the cartridge.
func (c *Cartridge) Read(addr uint16) (val uint8, ok bool) {
	switch c.Kind {
	case KindNone:
		return Sentinel, true
	case KindROM:
		return c.romAt(int(addr))
	case KindMBC1:
		if addr < 0x4000 {
			return c.romAt(int(addr))
		}
		return c.romAt(c.ROMBank()*0x4000 + int(addr-0x4000))
	}
	return Sentinel, false
}

func (c *Cartridge) romAt(off int) (uint8, bool) {
	if len(c.rom) == 0 {
		return Sentinel, false
	}
	return c.rom[off%len(c.rom)], true
}

// Write handles a write to the ROM area (0000-7FFF). It returns false if the
// write was not accepted.
func (c *Cartridge) Write(addr uint16, val uint8) bool {
	switch c.Kind {
	case KindNone:
		return false
	case KindROM:
		modMapper.DebugZ("write to rom ignored").
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return false
	case KindMBC1:
		c.writeMBC1(addr, val)
		return true
	}
	return false
}

// ReadRAM reads from the external RAM area (A000-BFFF). Disabled or missing
// RAM reads as Sentinel and ok is false.
func (c *Cartridge) ReadRAM(addr uint16) (uint8, bool) {
	off, ok := c.ramOffset(addr)
	if !ok {
		return Sentinel, false
	}
	return c.ram[off], true
}

// WriteRAM writes to the external RAM area (A000-BFFF). Writes to disabled
// or missing RAM are dropped and reported as not accepted.
func (c *Cartridge) WriteRAM(addr uint16, val uint8) bool {
	off, ok := c.ramOffset(addr)
	if !ok {
		return false
	}
	c.ram[off] = val
	return true
}

func (c *Cartridge) ramOffset(addr uint16) (int, bool) {
	if c.Kind == KindNone || len(c.ram) == 0 || !c.ramEnabled {
		return 0, false
	}
	off := int(addr-0xA000) + c.RAMBank()*0x2000
	return off % len(c.ram), true
}

// RAM returns the external RAM buffer (nil if the cartridge has none).
func (c *Cartridge) RAM() []byte { return c.ram }

// RAMEnabled reports whether the external RAM is currently accessible.
func (c *Cartridge) RAMEnabled() bool { return c.ramEnabled }
