package hw

import (
	"dmgo/emu/log"
	"dmgo/hw/hwio"
)

var modTimer = log.NewModule("timer")

// Bit of the internal counter whose falling edge increments TIMA, indexed by
// the rate select bits of TAC.
var timaBits = [4]uint{9, 3, 5, 7}

// Timer is the divider and programmable timer, mapped at FF04-FF07.
type Timer struct {
	DIV  hwio.Reg8 `hwio:"offset=0x0,wcb"`
	TIMA hwio.Reg8 `hwio:"offset=0x1"`
	TMA  hwio.Reg8 `hwio:"offset=0x2"`
	TAC  hwio.Reg8 `hwio:"offset=0x3,rwmask=0x07,rcb"`

	// Internal counter, incremented every cycle. DIV is its high byte.
	counter uint16

	// Overflow interrupt, waiting to be collected.
	irq bool
}

func (t *Timer) reset() {
	hwio.MustInitRegs(t)
	t.counter = 0
	t.irq = false
}

// Writing any value to DIV resets the whole internal counter.
func (t *Timer) WriteDIV(old, val uint8) {
	t.counter = 0
	t.DIV.Value = 0
}

func (t *Timer) ReadTAC(val uint8) uint8 { return val | 0xF8 }

func (t *Timer) enabled() bool { return t.TAC.Value&0x04 != 0 }

// Tick advances the timer by the given number of cycles.
func (t *Timer) Tick(cycles int) {
	bit := timaBits[t.TAC.Value&0x03]
	enabled := t.enabled()

	for range cycles {
		prev := t.counter >> bit & 1
		t.counter++
		if !enabled || prev == 0 || t.counter>>bit&1 != 0 {
			continue
		}

		t.TIMA.Value++
		if t.TIMA.Value == 0 {
			t.TIMA.Value = t.TMA.Value
			t.irq = true
			modTimer.DebugZ("overflow").Hex8("tma", t.TMA.Value).End()
		}
	}
	t.DIV.Value = uint8(t.counter >> 8)
}

// takeIRQ returns whether an overflow occurred since the last call.
func (t *Timer) takeIRQ() bool {
	irq := t.irq
	t.irq = false
	return irq
}
