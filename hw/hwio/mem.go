package hwio

import (
	"dmgo/emu/log"
)

// mem is the BankIO8 adaptor created by Mem.BankIO8. We use it by pointer so
// that Table can detect it behind the interface and use the fast path.
type mem struct {
	name string
	data []byte
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(name string, buf []byte, wcb func(uint16, uint8), roflag MemFlags) *mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		name: name,
		data: buf,
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   roflag,
	}
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	return m.data[addr&m.mask]
}

// Write8CheckRO writes val and reports whether the memory accepted it.
func (m *mem) Write8CheckRO(addr uint16, val uint8) bool {
	if m.wcb != nil {
		m.wcb(addr, val)
		return true
	}
	switch m.ro {
	case MemFlagReadWrite:
		m.data[addr&m.mask] = val
		return true
	case MemFlagNoROLog:
		return true
	}
	return false
}

func (m *mem) Write8(addr uint16, val uint8) {
	if !m.Write8CheckRO(addr, val) {
		log.ModHwIo.WarnZ("Write8 to readonly memory").
			String("name", m.name).
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // silently drop writes
)

// Linear memory area that can be mapped into a Table. The physical buffer
// must be a power of 2 and is mirrored over VSize bytes.
//
// Mem does not implement BankIO8 directly: clients call BankIO8 to create an
// adaptor matching the configured flags.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional write callback (if set, the callback is called instead of writing)
}

func (m *Mem) BankIO8() BankIO8 {
	return newMem(m.Name, m.Data, m.WriteCb, m.Flags)
}
