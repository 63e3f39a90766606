package hw

import (
	"errors"
	"testing"

	"dmgo/hw/hwio"
	"dmgo/hw/input"
	"dmgo/hw/mappers"
)

func TestBusMemoryMap(t *testing.T) {
	gb := newTestGameBoy(t, 0x3E, 0x42)
	bus := gb.Bus

	tests := []struct {
		name       string
		addr       uint16
		val        uint8
		mirror     uint16
		hasMirror  bool
		unwritable bool
	}{
		{name: "vram", addr: 0x8000, val: 0x11},
		{name: "vram end", addr: 0x9FFF, val: 0x12},
		{name: "wram", addr: 0xC000, val: 0x21, mirror: 0xE000, hasMirror: true},
		{name: "wram end", addr: 0xDDFF, val: 0x22, mirror: 0xFDFF, hasMirror: true},
		{name: "wram bank 1", addr: 0xDFFF, val: 0x23},
		{name: "hram", addr: 0xFF80, val: 0x31},
		{name: "hram end", addr: 0xFFFE, val: 0x32},
		{name: "serial data", addr: 0xFF01, val: 0x41},
		{name: "ie", addr: 0xFFFF, val: 0x1F},
	}
	for _, tt := range tests {
		bus.Write8(tt.addr, tt.val)
		if got := bus.Read8(tt.addr, false); got != tt.val {
			t.Errorf("%s: read %02X at %04X, want %02X", tt.name, got, tt.addr, tt.val)
		}
		if tt.hasMirror {
			if got := bus.Read8(tt.mirror, false); got != tt.val {
				t.Errorf("%s: read %02X at mirror %04X, want %02X", tt.name, got, tt.mirror, tt.val)
			}
		}
	}

	// No RAM on the test cartridge.
	bus.Write8(0xA000, 0x51)
	if got := bus.Read8(0xA000, false); got != 0xFF {
		t.Errorf("cart ram reads %02X, want FF", got)
	}
	if got := bus.Read8(0x0101, false); got != 0x42 {
		t.Errorf("rom reads %02X at 0101, want 42", got)
	}
}

func TestBusWriteToROMIgnored(t *testing.T) {
	gb := newTestGameBoy(t, 0x3E)

	gb.Bus.Write8(0x0100, 0x00)
	if got := gb.Bus.Read8(0x0100, false); got != 0x3E {
		t.Errorf("rom reads %02X after write, want 3E", got)
	}
}

func TestBusUnmapped(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Bus.Table.LogUnmapped = false

	for _, addr := range []uint16{0xFEA0, 0xFEFF, 0xFF03, 0xFF4C, 0xFF7F} {
		val, err := gb.Bus.Read(addr)
		var acc *hwio.AccessError
		if !errors.As(err, &acc) || acc.Addr != addr || acc.Write {
			t.Errorf("Read(%04X) error = %v, want an unmapped read", addr, err)
		}
		if val != 0xFF {
			t.Errorf("Read(%04X) = %02X, want FF", addr, val)
		}

		err = gb.Bus.Write(addr, 0x12)
		if !errors.As(err, &acc) || !acc.Write {
			t.Errorf("Write(%04X) error = %v, want an unmapped write", addr, err)
		}
	}

	if got := gb.Bus.Table.Faults(); got != 10 {
		t.Errorf("Faults() = %d, want 10", got)
	}
}

func TestBusIORegisters(t *testing.T) {
	gb := newTestGameBoy(t)
	bus := gb.Bus

	tests := []struct {
		name string
		addr uint16
		val  uint8
		want uint8
	}{
		{"IF", 0xFF0F, 0xFF, 0xFF},
		{"IF unused bits", 0xFF0F, 0x00, 0xE0},
		{"SC", 0xFF02, 0x81, 0xFF},
		{"SC unused bits", 0xFF02, 0x00, 0x7E},
		{"TAC", 0xFF07, 0x05, 0xFD},
		{"STAT read-only bits", 0xFF41, 0x07, 0x86}, // mode 2, LY=LYC
		{"sound", 0xFF26, 0x80, 0x00},
		{"P1 nothing selected", 0xFF00, 0x30, 0xFF},
	}
	for _, tt := range tests {
		bus.Write8(tt.addr, tt.val)
		if got := bus.Read8(tt.addr, false); got != tt.want {
			t.Errorf("%s: read %02X, want %02X", tt.name, got, tt.want)
		}
	}
}

func TestBusBootOverlay(t *testing.T) {
	cart, err := mappers.Load(testROM(t, 0xAA))
	if err != nil {
		t.Fatal(err)
	}
	boot := make([]byte, BootROMSize)
	boot[0x00] = 0x31
	boot[0xFF] = 0xE0

	gb, err := New(cart, boot)
	if err != nil {
		t.Fatal(err)
	}
	bus := gb.Bus

	if gb.CPU.PC != 0 {
		t.Errorf("PC = %04X, want 0000", gb.CPU.PC)
	}
	if got := bus.Read8(0x0000, false); got != 0x31 {
		t.Errorf("read %02X at 0000, want boot byte 31", got)
	}
	if got := bus.Read8(0x00FF, false); got != 0xE0 {
		t.Errorf("read %02X at 00FF, want boot byte E0", got)
	}
	if got := bus.Read8(0x0100, false); got != 0xAA {
		t.Errorf("read %02X at 0100, want cartridge byte AA", got)
	}
	if got := bus.Read8(0xFF50, false); got != 0xFF {
		t.Errorf("FF50 reads %02X while overlay is active, want FF", got)
	}

	// Writes with bit 0 clear leave the overlay on.
	bus.Write8(0xFF50, 0x00)
	if !bus.BootActive() {
		t.Fatal("overlay disabled by a write of 0")
	}

	bus.Write8(0xFF50, 0x01)
	if bus.BootActive() {
		t.Fatal("overlay still active")
	}
	if got := bus.Read8(0x0000, false); got != 0x00 {
		t.Errorf("read %02X at 0000, want cartridge byte 00", got)
	}
	if got := bus.Read8(0xFF50, false); got != 0xFE {
		t.Errorf("FF50 reads %02X after disable, want FE", got)
	}
}

func TestBadBootROMSize(t *testing.T) {
	if _, err := New(mappers.None(), make([]byte, 10)); err == nil {
		t.Error("New() should fail with a 10 bytes boot rom")
	}
}

func TestBusDMA(t *testing.T) {
	gb := newTestGameBoy(t)
	bus := gb.Bus

	for i := range uint16(oamSize) {
		bus.Write8(0xC100+i, uint8(i))
	}
	bus.Write8(0xFF46, 0xC1)

	want := OAMEntry{Y: 4, X: 5, Tile: 6, Attr: 7}
	if got := gb.PPU.OAM.Entries[1]; got != want {
		t.Errorf("OAM entry 1 = %+v, want %+v", got, want)
	}
	for i := range uint16(oamSize) {
		if got := bus.Read8(0xFE00+i, false); got != uint8(i) {
			t.Fatalf("OAM byte %d = %02X, want %02X", i, got, i)
		}
	}
}

func TestBusTimerInterrupt(t *testing.T) {
	gb := newTestGameBoy(t)
	bus := gb.Bus

	bus.Write8(0xFF06, 0x10) // TMA
	bus.Write8(0xFF05, 0xFF) // TIMA
	bus.Write8(0xFF07, 0x05) // enabled, 16 cycles
	bus.Write8(0xFFFF, irqTimer)

	bus.TimePasses(16)
	if bus.IRQ.Pending() != irqTimer {
		t.Fatalf("pending = %02X, want timer", bus.IRQ.Pending())
	}
	if got := bus.Read8(0xFF05, false); got != 0x10 {
		t.Errorf("TIMA = %02X, want 10", got)
	}

	vec, ok := bus.CheckInterrupt(true)
	if !ok || vec != TimerVector {
		t.Errorf("CheckInterrupt() = %04X, %t; want %04X, true", vec, ok, TimerVector)
	}
	if bus.IRQ.Pending() != 0 {
		t.Error("serviced interrupt should be acknowledged")
	}
}

func TestBusJoypad(t *testing.T) {
	gb := newTestGameBoy(t)
	bus := gb.Bus
	bus.Write8(0xFFFF, irqJoypad)

	var bs input.Buttons
	bs.Set(input.A, true)
	bs.Set(input.Down, true)
	bus.UpdateInput(bs)

	if bus.IRQ.Pending() != irqJoypad {
		t.Errorf("pending = %02X, want joypad", bus.IRQ.Pending())
	}

	tests := []struct {
		sel  uint8
		want uint8
	}{
		{0x20, 0xE7}, // directions: down
		{0x10, 0xDE}, // actions: A
		{0x00, 0xC6}, // both
		{0x30, 0xFF}, // none
	}
	for _, tt := range tests {
		bus.Write8(0xFF00, tt.sel)
		if got := bus.Read8(0xFF00, false); got != tt.want {
			t.Errorf("P1 with select %02X = %02X, want %02X", tt.sel, got, tt.want)
		}
	}

	// Holding the same buttons doesn't request another interrupt.
	bus.IRQ.IF.Value = 0
	bus.UpdateInput(bs)
	if bus.IRQ.Pending() != 0 {
		t.Errorf("pending = %02X, want none", bus.IRQ.Pending())
	}
}

func TestInterruptPriority(t *testing.T) {
	var it Interrupts
	it.IF.Value = 0x1F
	it.IE.Value = 0x1F

	if _, ok := it.Check(false); ok {
		t.Fatal("no interrupt should be serviced with IME off")
	}

	want := []uint16{VBlankVector, StatVector, TimerVector, SerialVector, JoypadVector}
	for _, w := range want {
		vec, ok := it.Check(true)
		if !ok || vec != w {
			t.Fatalf("Check() = %04X, %t; want %04X", vec, ok, w)
		}
	}
	if _, ok := it.Check(true); ok {
		t.Error("all interrupts should be acknowledged")
	}

	// Disabled sources are ignored.
	it.IF.Value = irqVBlank | irqTimer
	it.IE.Value = irqTimer
	if vec, _ := it.Check(true); vec != TimerVector {
		t.Errorf("Check() = %04X, want %04X", vec, TimerVector)
	}
}
