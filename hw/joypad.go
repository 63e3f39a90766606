package hw

import (
	"dmgo/emu/log"
	"dmgo/hw/hwio"
	"dmgo/hw/input"
)

// Joypad is the P1 register at FF00. Bits 4 and 5 select direction and
// action lines, the low nibble reads them active-low.
type Joypad struct {
	P1 hwio.Reg8 `hwio:"offset=0x0,rwmask=0x30,rcb,reset=0x30"`

	buttons input.Buttons
	irq     bool
}

func (j *Joypad) ReadP1(val uint8) uint8 {
	return 0xC0 | val&0x30 | j.lines(val)
}

func (j *Joypad) lines(sel uint8) uint8 {
	lines := uint8(0x0F)
	if sel&0x10 == 0 {
		lines &= j.buttons.DirectionNibble()
	}
	if sel&0x20 == 0 {
		lines &= j.buttons.ActionNibble()
	}
	return lines
}

// Update sets the state of all buttons. Pressing a button that was released
// requests the joypad interrupt.
func (j *Joypad) Update(bs input.Buttons) {
	pressed := bs &^ j.buttons
	j.buttons = bs
	if pressed != 0 {
		j.irq = true
		log.ModInput.DebugZ("buttons pressed").Stringer("buttons", pressed).End()
	}
}

func (j *Joypad) takeIRQ() bool {
	irq := j.irq
	j.irq = false
	return irq
}
