package hw

import (
	"testing"

	"dmgo/gbrom"
	"dmgo/hw/mappers"
)

// flatMem is a 64KiB RAM bus.
type flatMem [0x10000]uint8

func (m *flatMem) Read8(addr uint16, _ bool) uint8 { return m[addr] }
func (m *flatMem) Write8(addr uint16, val uint8)   { m[addr] = val }

// newTestCPU returns a CPU in post-boot state, over a flat memory holding
// prog at 0x0100.
func newTestCPU(prog ...uint8) (*CPU, *flatMem) {
	m := new(flatMem)
	copy(m[0x100:], prog)
	cpu := NewCPU(m)
	cpu.Reset(true)
	cpu.F = 0
	return cpu, m
}

// testROM returns a 32KiB image without mapper, holding prog at 0x0100.
func testROM(tb testing.TB, prog ...uint8) *gbrom.Rom {
	tb.Helper()

	buf := make([]byte, 0x8000)
	copy(buf[0x100:], prog)
	copy(buf[0x134:], "TEST")
	rom, err := gbrom.Decode(buf)
	if err != nil {
		tb.Fatal(err)
	}
	return rom
}

// newTestGameBoy returns a console in post-boot state, running prog.
func newTestGameBoy(tb testing.TB, prog ...uint8) *GameBoy {
	tb.Helper()

	cart, err := mappers.Load(testROM(tb, prog...))
	if err != nil {
		tb.Fatal(err)
	}
	gb, err := New(cart, nil)
	if err != nil {
		tb.Fatal(err)
	}
	return gb
}

func step(tb testing.TB, gb *GameBoy, n int) {
	tb.Helper()

	for range n {
		if _, err := gb.Step(); err != nil {
			tb.Fatal(err)
		}
	}
}
