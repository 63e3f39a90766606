package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"dmgo/hw/input"
)

func TestPostBootState(t *testing.T) {
	gb := newTestGameBoy(t, 0x00)

	want := Regs{A: 0x01, F: 0xB0, B: 0x00, C: 0x13, D: 0x00, E: 0xD8, H: 0x01, L: 0x4D, SP: 0xFFFE, PC: 0x0100}
	if diff := cmp.Diff(want, gb.CPU.Regs); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if gb.CPU.IME {
		t.Error("IME should be off")
	}
	if got := gb.Bus.Read8(0xFF40, true); got != 0x91 {
		t.Errorf("LCDC = %02X, want 91", got)
	}
	if got := gb.Bus.Read8(0xFF47, true); got != 0xFC {
		t.Errorf("BGP = %02X, want FC", got)
	}
	if gb.Bus.BootActive() {
		t.Error("boot rom should not be mapped")
	}
}

func TestStepServicesInterrupt(t *testing.T) {
	// EI, NOP, NOP
	gb := newTestGameBoy(t, 0xFB, 0x00, 0x00)
	gb.Bus.Write8(regIE, irqTimer)
	gb.Bus.Write8(regIF, irqTimer)

	// EI takes effect after the next instruction.
	step(t, gb, 1)
	if gb.CPU.PC != 0x101 {
		t.Fatalf("PC = %04X, want 0101", gb.CPU.PC)
	}
	step(t, gb, 1)

	if gb.CPU.PC != TimerVector {
		t.Errorf("PC = %04X, want %04X", gb.CPU.PC, TimerVector)
	}
	if gb.CPU.SP != 0xFFFC {
		t.Errorf("SP = %04X, want FFFC", gb.CPU.SP)
	}
	ret := uint16(gb.Bus.Read8(0xFFFD, true))<<8 | uint16(gb.Bus.Read8(0xFFFC, true))
	if ret != 0x0102 {
		t.Errorf("return address = %04X, want 0102", ret)
	}
	if gb.CPU.IME {
		t.Error("IME should be cleared")
	}
	if got := gb.Bus.Read8(regIF, true) & irqTimer; got != 0 {
		t.Error("timer request should be acknowledged")
	}
	if got, want := gb.CPU.Cycles, int64(4+4+interruptCycles); got != want {
		t.Errorf("cycles = %d, want %d", got, want)
	}
}

func TestHaltUntilVBlank(t *testing.T) {
	// EI, HALT, NOP
	gb := newTestGameBoy(t, 0xFB, 0x76, 0x00)
	gb.Bus.Write8(regIE, irqVBlank)

	for i := 0; gb.CPU.PC != VBlankVector; i++ {
		if i > 100000 {
			t.Fatal("vblank interrupt never serviced")
		}
		step(t, gb, 1)
	}

	if gb.CPU.IsHalted() {
		t.Error("CPU should be awake")
	}
	if ly := gb.PPU.LY.Value; ly != vblankStart {
		t.Errorf("LY = %d, want %d", ly, vblankStart)
	}
	ret := uint16(gb.Bus.Read8(0xFFFD, true))<<8 | uint16(gb.Bus.Read8(0xFFFC, true))
	if ret != 0x0102 {
		t.Errorf("return address = %04X, want 0102", ret)
	}
}

func TestStopUntilTimer(t *testing.T) {
	// EI, NOP, STOP 0
	gb := newTestGameBoy(t, 0xFB, 0x00, 0x10, 0x00)
	gb.Bus.Write8(regIE, irqTimer)
	gb.Bus.Write8(0xFF06, 0x00) // TMA
	gb.Bus.Write8(0xFF07, 0x05) // TAC: enabled, 16 cycles

	for i := 0; gb.CPU.PC != TimerVector; i++ {
		if i > 100000 {
			t.Fatal("timer interrupt never serviced")
		}
		step(t, gb, 1)
	}
	if gb.CPU.IsStopped() {
		t.Fatal("CPU should be awake once the handler is entered")
	}

	// The handler (NOPs) runs right away.
	step(t, gb, 50)
	if gb.CPU.PC != TimerVector+50 {
		t.Errorf("PC = %04X, want %04X", gb.CPU.PC, TimerVector+50)
	}
	ret := uint16(gb.Bus.Read8(0xFFFD, true))<<8 | uint16(gb.Bus.Read8(0xFFFC, true))
	if ret != 0x0104 {
		t.Errorf("return address = %04X, want 0104", ret)
	}
}

func TestHaltJoypadInterrupt(t *testing.T) {
	// EI, NOP, HALT, INC B
	gb := newTestGameBoy(t, 0xFB, 0x00, 0x76, 0x04)
	gb.Bus.Write8(regIE, irqJoypad)

	step(t, gb, 3)
	if !gb.CPU.IsHalted() {
		t.Fatal("CPU should be halted")
	}

	gb.Bus.UpdateInput(1 << input.A)
	step(t, gb, 1)

	if gb.CPU.PC != JoypadVector {
		t.Errorf("PC = %04X, want %04X", gb.CPU.PC, JoypadVector)
	}
	if gb.CPU.B != 0 {
		t.Errorf("B = %02X, instruction after HALT ran before the handler", gb.CPU.B)
	}
	ret := uint16(gb.Bus.Read8(0xFFFD, true))<<8 | uint16(gb.Bus.Read8(0xFFFC, true))
	if ret != 0x0103 {
		t.Errorf("return address = %04X, want 0103", ret)
	}
}

func TestRunFrame(t *testing.T) {
	// JR -2
	gb := newTestGameBoy(t, 0x18, 0xFE)
	frame := make([]byte, FrameSize)

	if err := gb.RunFrame(0, frame); err != nil {
		t.Fatal(err)
	}
	if gb.Frames != 1 {
		t.Errorf("Frames = %d, want 1", gb.Frames)
	}
	if ly := gb.PPU.LY.Value; ly != vblankStart {
		t.Errorf("LY = %d after a frame, want %d", ly, vblankStart)
	}

	// Empty VRAM with BGP=FC gives a white screen.
	for i, v := range frame {
		if v != 0xFF {
			t.Fatalf("frame[%d] = %02X, want FF", i, v)
		}
	}

	const frameCycles = 70224
	before := gb.CPU.Cycles
	if err := gb.RunFrame(0, frame); err != nil {
		t.Fatal(err)
	}
	if d := gb.CPU.Cycles - before; d < frameCycles-12 || d > frameCycles+12 {
		t.Errorf("second frame took %d cycles, want about %d", d, frameCycles)
	}
}

func TestRunFrameInvalidOpcode(t *testing.T) {
	gb := newTestGameBoy(t, 0x00, 0xDD)

	err := gb.RunFrame(0, make([]byte, FrameSize))
	if err == nil {
		t.Fatal("RunFrame should fail on an invalid opcode")
	}
	if gb.Frames != 0 {
		t.Errorf("Frames = %d, want 0", gb.Frames)
	}
}
