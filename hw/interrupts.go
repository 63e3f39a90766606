package hw

import "dmgo/hw/hwio"

// Interrupt request bits, as found in IF and IE.
const (
	irqVBlank uint8 = 1 << iota
	irqStat
	irqTimer
	irqSerial
	irqJoypad
)

var vectors = [5]uint16{VBlankVector, StatVector, TimerVector, SerialVector, JoypadVector}

// Interrupts is the interrupt controller.
type Interrupts struct {
	IF hwio.Reg8 `hwio:"bank=0,offset=0x0,rwmask=0x1F,rcb"` // FF0F
	IE hwio.Reg8 `hwio:"bank=1,offset=0x0"`                 // FFFF
}

func (it *Interrupts) ReadIF(val uint8) uint8 { return val | 0xE0 }

// Request raises the interrupt request bits in IF.
func (it *Interrupts) Request(bits uint8) {
	it.IF.Value |= bits & 0x1F
}

// Pending returns the requested interrupts that are also enabled.
func (it *Interrupts) Pending() uint8 {
	return it.IF.Value & it.IE.Value & 0x1F
}

// Check returns the vector of the highest priority interrupt to service, and
// acknowledges it. Nothing is serviced while ime is false.
func (it *Interrupts) Check(ime bool) (uint16, bool) {
	if !ime {
		return 0, false
	}
	pending := it.Pending()
	for i, vec := range vectors {
		if pending&(1<<i) != 0 {
			it.IF.ClearBit(uint(i))
			return vec, true
		}
	}
	return 0, false
}
