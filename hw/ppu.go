package hw

import (
	"fmt"

	"dmgo/emu/log"
	"dmgo/hw/hwio"
)

const (
	Width  = 160
	Height = 144

	// FrameSize is the size of a RGB frame buffer.
	FrameSize = Width * Height * 3
)

const (
	lineCycles  = 456 // cycles per scanline
	mode3Start  = 78  // first cycle of pixel transfer
	mode0Start  = 248 // first cycle of H-blank
	vblankStart = 144 // first V-blank line
	lastLine    = 153
)

// PPU modes, as reported in the low 2 bits of STAT.
const (
	ModeHBlank uint8 = iota
	ModeVBlank
	ModeOAMSearch
	ModePixelTransfer
)

// LCDC bits.
const (
	lcdcBGEnable   = 1 << 0
	lcdcOBJEnable  = 1 << 1
	lcdcOBJSize    = 1 << 2 // 0: 8x8, 1: 8x16
	lcdcBGMap      = 1 << 3 // 0: 9800, 1: 9C00
	lcdcTileData   = 1 << 4 // 0: 8800 signed, 1: 8000 unsigned
	lcdcWinEnable  = 1 << 5
	lcdcWinMap     = 1 << 6 // 0: 9800, 1: 9C00
	lcdcDispEnable = 1 << 7
)

// STAT bits.
const (
	statCoincidence = 1 << 2
	statHBlankIRQ   = 1 << 3
	statVBlankIRQ   = 1 << 4
	statOAMIRQ      = 1 << 5
	statLYCIRQ      = 1 << 6
)

// DisplayStateError reports the display being disabled during V-blank.
type DisplayStateError struct {
	LY    uint8
	Cycle int
}

func (e *DisplayStateError) Error() string {
	return fmt.Sprintf("display disabled during vblank (LY=%d, cycle=%d)", e.LY, e.Cycle)
}

// PPU registers are mapped at FF40 (bank 0), VRAM at 8000 (bank 1).
type PPU struct {
	LCDC hwio.Reg8 `hwio:"offset=0x0,wcb"`
	STAT hwio.Reg8 `hwio:"offset=0x1,rwmask=0x78,rcb"`
	SCY  hwio.Reg8 `hwio:"offset=0x2"`
	SCX  hwio.Reg8 `hwio:"offset=0x3"`
	LY   hwio.Reg8 `hwio:"offset=0x4,wcb"`
	LYC  hwio.Reg8 `hwio:"offset=0x5,wcb"`
	BGP  hwio.Reg8 `hwio:"offset=0x7"`
	OBP0 hwio.Reg8 `hwio:"offset=0x8"`
	OBP1 hwio.Reg8 `hwio:"offset=0x9"`
	WY   hwio.Reg8 `hwio:"offset=0xA"`
	WX   hwio.Reg8 `hwio:"offset=0xB"`

	VRAM hwio.Mem `hwio:"bank=1,offset=0x0,size=0x2000"`
	OAM  OAM

	lx       int  // cycle within the current line
	winLine  int  // window internal line counter
	statLine bool // OR of all enabled STAT interrupt conditions
	irq      uint8

	done  []uint8 // lines completed by the last TimePasses call
	frame []byte

	lastErr  error
	errCount int
}

func NewPPU() *PPU {
	p := &PPU{
		frame: make([]byte, FrameSize),
		done:  make([]uint8, 0, lastLine+1),
	}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	hwio.MustInitRegs(p)
	p.OAM = OAM{}
	p.lx = 0
	p.winLine = 0
	p.statLine = false
	p.irq = 0
	p.lastErr = nil
	p.errCount = 0
	p.updateMode()
}

func (p *PPU) enabled() bool { return p.LCDC.GetBit(7) }

// Mode returns the current PPU mode.
func (p *PPU) Mode() uint8 {
	switch {
	case p.LY.Value >= vblankStart:
		return ModeVBlank
	case p.lx < mode3Start:
		return ModeOAMSearch
	case p.lx < mode0Start:
		return ModePixelTransfer
	}
	return ModeHBlank
}

// Cycle returns the current cycle within the line.
func (p *PPU) Cycle() int { return p.lx }

// LastError returns the last illegal display state transition, if any.
func (p *PPU) LastError() error { return p.lastErr }

// ErrorCount returns how many illegal display state transitions occurred.
func (p *PPU) ErrorCount() int { return p.errCount }

// $FF40
func (p *PPU) WriteLCDC(old, val uint8) {
	switch {
	case old&lcdcDispEnable == 0 && val&lcdcDispEnable != 0:
		p.LY.Value = 0
		p.lx = 0
		p.winLine = 0
		log.ModPPU.DebugZ("display enabled").End()
	case old&lcdcDispEnable != 0 && val&lcdcDispEnable == 0:
		if p.Mode() == ModeVBlank {
			err := &DisplayStateError{LY: p.LY.Value, Cycle: p.lx}
			p.lastErr = err
			p.errCount++
			log.ModPPU.ErrorZ("illegal display state transition").Error("err", err).End()
		}
		log.ModPPU.DebugZ("display disabled").End()
	}
	p.updateMode()
}

// $FF41
func (p *PPU) ReadSTAT(val uint8) uint8 { return val | 0x80 }

// $FF44: any write resets LY.
func (p *PPU) WriteLY(old, val uint8) {
	p.LY.Value = 0
	p.updateMode()
}

// $FF45
func (p *PPU) WriteLYC(old, val uint8) {
	p.updateMode()
}

// TimePasses advances the PPU by the given number of cycles and returns the
// scanlines completed meanwhile. The returned slice is only valid until the
// next call.
func (p *PPU) TimePasses(cycles int) []uint8 {
	p.done = p.done[:0]
	for range cycles {
		p.tick()
	}
	return p.done
}

func (p *PPU) tick() {
	p.lx++
	ly := p.LY.Value

	if p.lx == mode0Start && ly < vblankStart {
		p.renderLine(ly)
	}

	if p.lx >= lineCycles {
		p.lx = 0
		p.done = append(p.done, ly)

		ly++
		if ly > lastLine {
			ly = 0
			p.winLine = 0
		}
		p.LY.Value = ly
		if ly == vblankStart && p.enabled() {
			p.irq |= irqVBlank
		}
	}
	p.updateMode()
}

// updateMode refreshes the mode and coincidence bits of STAT, and requests
// the STAT interrupt on rising edges of the STAT line.
func (p *PPU) updateMode() {
	mode := p.Mode()
	stat := p.STAT.Value&^0x07 | mode
	if p.LY.Value == p.LYC.Value {
		stat |= statCoincidence
	}
	p.STAT.Value = stat

	line := false
	if p.enabled() {
		line = stat&statLYCIRQ != 0 && stat&statCoincidence != 0 ||
			stat&statHBlankIRQ != 0 && mode == ModeHBlank ||
			stat&statVBlankIRQ != 0 && mode == ModeVBlank ||
			stat&statOAMIRQ != 0 && mode == ModeOAMSearch
	}
	if line && !p.statLine {
		p.irq |= irqStat
	}
	p.statLine = line
}

func (p *PPU) takeIRQ() uint8 {
	irq := p.irq
	p.irq = 0
	return irq
}

// Frame copies the last rendered frame into dst.
func (p *PPU) Frame(dst []byte) {
	copy(dst, p.frame)
}
