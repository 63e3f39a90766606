package hw

import (
	"dmgo/emu/log"
	"dmgo/hw/hwio"
	"dmgo/hw/input"
	"dmgo/hw/mappers"
)

// BootROMSize is the size of the boot program overlaid at 0000-00FF.
const BootROMSize = 0x100

// Bus is the memory mapper: it routes every CPU access to the cartridge, the
// internal memories or the IO registers.
//
//	0000-7FFF  cartridge ROM, boot program overlay at 0000-00FF
//	8000-9FFF  VRAM
//	A000-BFFF  cartridge RAM
//	C000-DFFF  WRAM, mirrored at E000-FDFF
//	FE00-FE9F  OAM
//	FF00-FF7F  IO registers
//	FF80-FFFE  HRAM
//	FFFF       IE
type Bus struct {
	Table *hwio.Table

	WRAM   hwio.Mem    `hwio:"bank=0,offset=0x0,size=0x2000,vsize=0x3E00"`
	HRAM   hwio.Mem    `hwio:"bank=1,offset=0x0,size=0x80,vsize=0x7F"`
	ROM    hwio.Device `hwio:"bank=2,offset=0x0,size=0x8000,rcb,wcb"`
	ExtRAM hwio.Device `hwio:"bank=3,offset=0x0,size=0x2000,rcb,wcb"`
	OAM    hwio.Device `hwio:"bank=4,offset=0x0,size=0xA0,rcb,wcb"`

	// IO registers, relative to FF00.
	SB    hwio.Reg8   `hwio:"bank=5,offset=0x01"`
	SC    hwio.Reg8   `hwio:"bank=5,offset=0x02,rwmask=0x81,rcb"`
	Audio hwio.Device `hwio:"bank=5,offset=0x10,size=0x30,rcb,wcb"`
	DMA   hwio.Reg8   `hwio:"bank=5,offset=0x46,wcb"`
	BOOT  hwio.Reg8   `hwio:"bank=5,offset=0x50,rcb,wcb"`

	IRQ    Interrupts
	Timer  Timer
	Joypad Joypad
	PPU    *PPU
	Cart   *mappers.Cartridge

	boot       []byte
	bootActive bool
}

// NewBus creates the bus and maps all devices. boot may be nil, in which
// case the boot overlay is disabled from the start.
func NewBus(ppu *PPU, cart *mappers.Cartridge, boot []byte) *Bus {
	if cart == nil {
		cart = mappers.None()
	}
	b := &Bus{
		Table: hwio.NewTable("cpu"),
		PPU:   ppu,
		Cart:  cart,
		boot:  boot,
	}
	b.InitBus()
	return b
}

func (b *Bus) InitBus() {
	hwio.MustInitRegs(b)
	hwio.MustInitRegs(&b.IRQ)
	hwio.MustInitRegs(&b.Joypad)
	b.Timer.reset()

	b.Table.Reset()
	b.Table.MapBank(0x0000, b, 2)
	b.Table.MapBank(0x8000, b.PPU, 1)
	b.Table.MapBank(0xA000, b, 3)
	b.Table.MapBank(0xC000, b, 0)
	b.Table.MapBank(0xFE00, b, 4)
	b.Table.MapBank(0xFF00, &b.Joypad, 0)
	b.Table.MapBank(0xFF00, b, 5)
	b.Table.MapBank(0xFF04, &b.Timer, 0)
	b.Table.MapBank(0xFF0F, &b.IRQ, 0)
	b.Table.MapBank(0xFF40, b.PPU, 0)
	b.Table.MapBank(0xFF80, b, 1)
	b.Table.MapBank(0xFFFF, &b.IRQ, 1)

	b.bootActive = len(b.boot) > 0
}

// BootActive reports whether the boot program is still mapped.
func (b *Bus) BootActive() bool { return b.bootActive }

func (b *Bus) Read8(addr uint16, peek bool) uint8 { return b.Table.Read8(addr, peek) }
func (b *Bus) Write8(addr uint16, val uint8)      { b.Table.Write8(addr, val) }

// Read reads the byte at addr. Unmapped addresses read as 0xFF and return
// an error.
func (b *Bus) Read(addr uint16) (uint8, error) { return b.Table.Read(addr, false) }

// Write writes val at addr. Writes to unmapped addresses are dropped and
// return an error.
func (b *Bus) Write(addr uint16, val uint8) error { return b.Table.Write(addr, val) }

// TimePasses advances the timer and the PPU by the given number of cycles,
// collects their interrupt requests and returns the completed scanlines.
func (b *Bus) TimePasses(cycles int) []uint8 {
	b.Timer.Tick(cycles)
	if b.Timer.takeIRQ() {
		b.IRQ.Request(irqTimer)
	}
	lines := b.PPU.TimePasses(cycles)
	b.IRQ.Request(b.PPU.takeIRQ())
	return lines
}

// CheckInterrupt returns the vector of the interrupt to service, if any.
func (b *Bus) CheckInterrupt(ime bool) (uint16, bool) {
	return b.IRQ.Check(ime)
}

// UpdateInput sets the state of the joypad buttons.
func (b *Bus) UpdateInput(bs input.Buttons) {
	b.Joypad.Update(bs)
	if b.Joypad.takeIRQ() {
		b.IRQ.Request(irqJoypad)
	}
}

// 0000-7FFF
func (b *Bus) ReadROM(addr uint16) uint8 {
	if b.bootActive && int(addr) < len(b.boot) && addr < BootROMSize {
		return b.boot[addr]
	}
	val, ok := b.Cart.Read(addr)
	if !ok {
		log.ModMem.WarnZ("cartridge read failed").Hex16("addr", addr).End()
	}
	return val
}

func (b *Bus) WriteROM(addr uint16, val uint8) {
	if !b.Cart.Write(addr, val) {
		log.ModMem.DebugZ("cartridge write dropped").
			Hex16("addr", addr).
			Hex8("val", val).
			Stringer("mapper", b.Cart.Kind).
			End()
	}
}

// A000-BFFF
func (b *Bus) ReadEXTRAM(addr uint16) uint8 {
	val, ok := b.Cart.ReadRAM(addr)
	if !ok {
		log.ModMem.DebugZ("cartridge ram read ignored").
			Hex16("addr", addr).
			End()
	}
	return val
}

func (b *Bus) WriteEXTRAM(addr uint16, val uint8) {
	if !b.Cart.WriteRAM(addr, val) {
		log.ModMem.DebugZ("cartridge ram write dropped").
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
}

// FE00-FE9F
func (b *Bus) ReadOAM(addr uint16) uint8       { return b.PPU.OAM.Read(uint8(addr)) }
func (b *Bus) WriteOAM(addr uint16, val uint8) { b.PPU.OAM.Write(uint8(addr), val) }

// FF02
func (b *Bus) ReadSC(val uint8) uint8 { return val | 0x7E }

// FF10-FF3F: sound is not emulated.
func (b *Bus) ReadAUDIO(addr uint16) uint8 { return 0x00 }

func (b *Bus) WriteAUDIO(addr uint16, val uint8) {
	log.ModSound.DebugZ("write to sound register ignored").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

// FF46: copy 160 bytes from val<<8 to OAM.
func (b *Bus) WriteDMA(old, val uint8) {
	src := uint16(val) << 8
	for i := range uint16(oamSize) {
		b.PPU.OAM.Write(uint8(i), b.Table.Peek8(src+i))
	}
	log.ModMem.DebugZ("oam dma").Hex16("src", src).End()
}

// FF50
func (b *Bus) ReadBOOT(val uint8) uint8 {
	if b.bootActive {
		return 0xFF
	}
	return 0xFE
}

func (b *Bus) WriteBOOT(old, val uint8) {
	if val&1 != 0 && b.bootActive {
		b.bootActive = false
		log.ModMem.InfoZ("boot rom disabled").End()
	}
}
