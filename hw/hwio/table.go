package hwio

import (
	"fmt"

	"dmgo/emu/log"
)

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

// Write16 writes a little-endian word: low byte at addr, high byte at addr+1.
func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

// AccessError reports an access to an address where nothing is mapped, or a
// write to read-only memory.
type AccessError struct {
	Bus   string
	Addr  uint16
	Write bool
	Val   uint8
	RO    bool
}

func (e *AccessError) Error() string {
	switch {
	case e.RO:
		return fmt.Sprintf("%s: write %02X to read-only address %04X", e.Bus, e.Val, e.Addr)
	case e.Write:
		return fmt.Sprintf("%s: write %02X to unmapped address %04X", e.Bus, e.Val, e.Addr)
	}
	return fmt.Sprintf("%s: read from unmapped address %04X", e.Bus, e.Addr)
}

// Table is an address decoder dispatching 8-bit accesses over a 16-bit
// address space to the mapped banks.
type Table struct {
	Name string

	// LogUnmapped enables diagnostics for each access to an unmapped address.
	LogUnmapped bool

	pages  pageTable
	faults int
	last   *AccessError
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.pages = pageTable{}
	t.faults = 0
	t.last = nil
}

// Faults returns the number of faulting accesses since the last Reset.
func (t *Table) Faults() int { return t.faults }

// LastFault returns the most recent faulting access, or nil.
func (t *Table) LastFault() *AccessError { return t.last }

// Map a register bank (that is, a structure containing multiple Reg8, Mem or
// Device fields). For this function to work, registers must have a struct
// tag "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.VSize-1))
		case *Reg8:
			t.Unmap(addr+reg.offset, addr+reg.offset)
		case *Device:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.Size-1))
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr uint16, size int, io BankIO8) {
	if size <= 0 || int(addr)+size > 0x10000 {
		panic(fmt.Errorf("%s: invalid mapping at %04X (size %d)", t.Name, addr, size))
	}
	if err := t.pages.InsertRange(addr, addr+uint16(size-1), io); err != nil {
		panic(fmt.Errorf("%s: %w", t.Name, err))
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, io *Device) {
	t.mapBus8(addr, io.Size, io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Int("size", mem.VSize).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, mem.VSize, mem.BankIO8())
}

// MapMemorySlice maps the buffer mem to [addr, end], mirroring it if it is
// smaller than the range.
func (t *Table) MapMemorySlice(addr, end uint16, mem []uint8, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  mem,
		Flags: flags,
		VSize: int(end) - int(addr) + 1,
	})
}

// MapBankIO maps an arbitrary BankIO8 on [addr, end].
func (t *Table) MapBankIO(addr, end uint16, io BankIO8) {
	t.mapBus8(addr, int(end)-int(addr)+1, io)
}

func (t *Table) Unmap(begin, end uint16) {
	t.pages.RemoveRange(begin, end)
}

func (t *Table) fault(e *AccessError) error {
	t.faults++
	t.last = e
	return e
}

// Read forwards a read to the bank mapped at addr. Reading an unmapped
// address returns 0xFF and an *AccessError.
func (t *Table) Read(addr uint16, peek bool) (uint8, error) {
	io := t.pages.Search(addr)
	if io == nil {
		if peek {
			return 0xFF, nil
		}
		return 0xFF, t.fault(&AccessError{Bus: t.Name, Addr: addr})
	}
	return io.Read8(addr, peek), nil
}

// Write forwards a write to the bank mapped at addr. Writes to unmapped
// addresses or read-only memory are dropped and reported.
func (t *Table) Write(addr uint16, val uint8) error {
	io := t.pages.Search(addr)
	if io == nil {
		return t.fault(&AccessError{Bus: t.Name, Addr: addr, Write: true, Val: val})
	}
	if m, ok := io.(*mem); ok {
		if !m.Write8CheckRO(addr, val) {
			return t.fault(&AccessError{Bus: t.Name, Addr: addr, Write: true, Val: val, RO: true})
		}
		return nil
	}
	io.Write8(addr, val)
	return nil
}

// Read8 is like Read, but faults are only logged.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	val, err := t.Read(addr, peek)
	if err != nil && t.LogUnmapped {
		log.ModHwIo.WarnZ("unmapped Read8").
			String("name", t.Name).
			Hex16("addr", addr).
			End()
	}
	return val
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

// Write8 is like Write, but faults are only logged.
func (t *Table) Write8(addr uint16, val uint8) {
	err := t.Write(addr, val)
	if err != nil && t.LogUnmapped {
		log.ModHwIo.WarnZ("dropped Write8").
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			Error("err", err).
			End()
	}
}
