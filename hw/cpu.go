package hw

import (
	"fmt"
	"io"

	"dmgo/emu/log"
	"dmgo/hw/hwio"
)

// Interrupt vectors, by priority order.
const (
	VBlankVector = uint16(0x40)
	StatVector   = uint16(0x48)
	TimerVector  = uint16(0x50)
	SerialVector = uint16(0x58)
	JoypadVector = uint16(0x60)
)

const (
	// Extra cost of a taken conditional JR, JP, CALL or RET.
	condSurcharge = 12

	// Cost of servicing an interrupt.
	interruptCycles = 20

	// Time slice consumed while halted or stopped.
	sleepCycles = 4

	regIF = 0xFF0F
	regIE = 0xFFFF
)

// OperandError reports an attempt to write to an operand that can't be
// written, such as an immediate. It means the dispatch tables and the
// execution engine disagree.
type OperandError struct {
	Op      Op
	Operand string
	PC      uint16
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: operand %s is not writable (pc=%04X)", e.Op, e.Operand, e.PC)
}

type CPU struct {
	Regs

	Bus hwio.BankIO8

	IME    bool  // interrupt master enable
	Cycles int64 // elapsed cycles

	eiDelay int // instructions left before EI takes effect
	halted  bool
	stopped bool

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	curPC uint16 // address of the instruction being executed
}

// NewCPU creates a new CPU at power-up state, connected to bus.
func NewCPU(bus hwio.BankIO8) *CPU {
	return &CPU{Bus: bus}
}

// Reset puts the CPU in power-up state. If skipBoot is true, registers are
// set to the values the boot program leaves them with.
func (c *CPU) Reset(skipBoot bool) {
	c.Regs = Regs{}
	c.IME = false
	c.eiDelay = 0
	c.halted = false
	c.stopped = false
	c.Cycles = 0

	if skipBoot {
		c.SetPair(PairAF, 0x01B0)
		c.SetPair(PairBC, 0x0013)
		c.SetPair(PairDE, 0x00D8)
		c.SetPair(PairHL, 0x014D)
		c.SP = 0xFFFE
		c.PC = 0x0100
	}
}

// AddLogContext adds the address of the current instruction to log entries.
func (c *CPU) AddLogContext(e *log.EntryZ) {
	e.Hex16("pc", c.curPC)
}

func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w}
}

func (c *CPU) IsHalted() bool  { return c.halted }
func (c *CPU) IsStopped() bool { return c.stopped }

// wake reports whether a sleeping CPU must resume. HALT ends as soon as an
// enabled interrupt is pending, whatever IME; STOP ends on joypad or timer
// activity.
func (c *CPU) wake() bool {
	if c.stopped {
		return c.Bus.Read8(regIF, true)&(irqJoypad|irqTimer) != 0
	}
	return c.pending() != 0
}

// pending returns the requested and enabled interrupts.
func (c *CPU) pending() uint8 {
	return c.Bus.Read8(regIF, true) & c.Bus.Read8(regIE, true) & 0x1F
}

// Step executes one instruction, or one sleep slice if the CPU is halted,
// and returns the number of cycles it took. Waking up with IME set and an
// interrupt pending takes no cycle and executes nothing: the caller is
// expected to service the interrupt first.
func (c *CPU) Step() (int, error) {
	if c.halted || c.stopped {
		if !c.wake() {
			c.Cycles += sleepCycles
			return sleepCycles, nil
		}
		c.halted, c.stopped = false, false
		if c.IME && c.pending() != 0 {
			// The handler runs before the instruction following the sleep.
			return 0, nil
		}
	}

	c.curPC = c.PC
	in, err := Decode(c.Bus, c.PC)
	if err != nil {
		return 0, err
	}
	if c.tracer != nil {
		c.tracer.write(c, &in)
	}

	c.PC += uint16(in.Len)
	extra, err := c.execute(&in)
	if err != nil {
		return 0, err
	}

	cycles := in.Cycles + extra
	c.Cycles += int64(cycles)

	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.IME = true
		}
	}
	return cycles, nil
}

// execute runs in, converting an operand fault into an error.
func (c *CPU) execute(in *Instr) (extra int, err error) {
	defer func() {
		if r := recover(); r != nil {
			operr, ok := r.(*OperandError)
			if !ok {
				panic(r)
			}
			err = operr
		}
	}()
	return c.exec(in), nil
}

// Interrupt services an interrupt: the current PC is pushed, further
// interrupts are disabled and execution continues at vector.
func (c *CPU) Interrupt(vector uint16) int {
	log.ModCPU.DebugZ("servicing interrupt").
		Hex16("vector", vector).
		Hex16("ret", c.PC).
		End()

	c.halted, c.stopped = false, false
	c.IME = false
	c.eiDelay = 0
	c.push16(c.PC)
	c.PC = vector
	c.Cycles += interruptCycles
	return interruptCycles
}

/* memory access */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr, false)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) Write16(addr uint16, val uint16) {
	c.Write8(addr, uint8(val))
	c.Write8(addr+1, uint8(val>>8))
}

/* stack operations */

func (c *CPU) push16(val uint16) {
	c.SP -= 2
	c.Write16(c.SP, val)
}

func (c *CPU) pop16() uint16 {
	val := c.Read16(c.SP)
	c.SP += 2
	return val
}
