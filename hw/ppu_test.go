package hw

import (
	"errors"
	"slices"
	"testing"
)

func TestPPULineTiming(t *testing.T) {
	gb := newTestGameBoy(t)
	ppu := gb.PPU

	if ppu.LY.Value != 0 || ppu.Mode() != ModeOAMSearch {
		t.Fatalf("LY=%d mode=%d at power up, want LY=0 mode=%d", ppu.LY.Value, ppu.Mode(), ModeOAMSearch)
	}

	lines := gb.Bus.TimePasses(lineCycles - 1)
	if len(lines) != 0 || ppu.LY.Value != 0 {
		t.Fatalf("after %d cycles: lines=%v LY=%d, want none and 0", lineCycles-1, lines, ppu.LY.Value)
	}
	lines = gb.Bus.TimePasses(1)
	if !slices.Equal(lines, []uint8{0}) || ppu.LY.Value != 1 {
		t.Fatalf("after %d cycles: lines=%v LY=%d, want [0] and 1", lineCycles, lines, ppu.LY.Value)
	}
}

func TestPPUModes(t *testing.T) {
	gb := newTestGameBoy(t)
	ppu := gb.PPU

	tests := []struct {
		cycles int
		mode   uint8
	}{
		{mode3Start - 1, ModeOAMSearch},
		{1, ModePixelTransfer},
		{mode0Start - mode3Start - 1, ModePixelTransfer},
		{1, ModeHBlank},
		{lineCycles - mode0Start, ModeOAMSearch},
		{lineCycles * 143, ModeVBlank},
	}
	for i, tt := range tests {
		gb.Bus.TimePasses(tt.cycles)
		if got := ppu.Mode(); got != tt.mode {
			t.Errorf("step %d: mode = %d, want %d", i, got, tt.mode)
		}
		if got := gb.Bus.Read8(0xFF41, false) & 0x03; got != tt.mode {
			t.Errorf("step %d: STAT mode bits = %d, want %d", i, got, tt.mode)
		}
	}
}

func TestPPUFrame(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Bus.Write8(0xFFFF, 0x01)

	lines := gb.Bus.TimePasses(lineCycles * vblankStart)
	if !slices.Contains(lines, uint8(frameLine)) {
		t.Errorf("lines %v should contain %d", lines, frameLine)
	}
	if gb.PPU.LY.Value != vblankStart {
		t.Errorf("LY = %d, want %d", gb.PPU.LY.Value, vblankStart)
	}
	if gb.Bus.IRQ.Pending()&irqVBlank == 0 {
		t.Error("entering V-blank should request the V-blank interrupt")
	}

	// 154 lines per frame.
	gb.Bus.TimePasses(lineCycles * (lastLine - vblankStart))
	if gb.PPU.LY.Value != lastLine {
		t.Errorf("LY = %d, want %d", gb.PPU.LY.Value, lastLine)
	}
	lines = gb.Bus.TimePasses(lineCycles)
	if !slices.Equal(lines, []uint8{lastLine}) || gb.PPU.LY.Value != 0 {
		t.Errorf("lines=%v LY=%d, want [%d] and 0", lines, gb.PPU.LY.Value, lastLine)
	}
}

func TestPPUWriteLY(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Bus.TimePasses(lineCycles * 10)

	gb.Bus.Write8(0xFF44, 0x42)
	if got := gb.Bus.Read8(0xFF44, false); got != 0 {
		t.Errorf("LY = %d after write, want 0", got)
	}
}

func TestPPUDisableDuringVBlank(t *testing.T) {
	gb := newTestGameBoy(t)

	// Outside of V-blank, turning the display off is fine.
	gb.Bus.Write8(0xFF40, 0x11)
	if err := gb.PPU.LastError(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gb.Bus.Write8(0xFF40, 0x91)

	gb.Bus.TimePasses(lineCycles*vblankStart + 10)
	gb.Bus.Write8(0xFF40, 0x11)

	var dserr *DisplayStateError
	if !errors.As(gb.PPU.LastError(), &dserr) {
		t.Fatalf("LastError() = %v, want a *DisplayStateError", gb.PPU.LastError())
	}
	if dserr.LY != vblankStart || dserr.Cycle != 10 {
		t.Errorf("error = %+v, want LY=%d Cycle=10", *dserr, vblankStart)
	}
	if gb.PPU.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", gb.PPU.ErrorCount())
	}
}

func TestPPUDisplayOff(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Bus.Write8(0xFF40, 0x11)
	gb.Bus.Write8(0xFFFF, 0x1F)

	// Lines keep being counted but no interrupt is requested.
	lines := gb.Bus.TimePasses(lineCycles * (lastLine + 1))
	if len(lines) != lastLine+1 {
		t.Errorf("%d lines completed, want %d", len(lines), lastLine+1)
	}
	if gb.Bus.IRQ.Pending() != 0 {
		t.Errorf("pending interrupts = %02X, want none", gb.Bus.IRQ.Pending())
	}
}

func TestPPUSTATCoincidence(t *testing.T) {
	gb := newTestGameBoy(t)
	gb.Bus.Write8(0xFFFF, 0x02)
	gb.Bus.Write8(0xFF45, 3)    // LYC
	gb.Bus.Write8(0xFF41, 0x40) // LYC=LY interrupt

	gb.Bus.TimePasses(lineCycles * 2)
	if gb.Bus.IRQ.Pending() != 0 {
		t.Fatal("unexpected STAT interrupt")
	}
	gb.Bus.TimePasses(lineCycles)
	if gb.Bus.IRQ.Pending() != irqStat {
		t.Errorf("pending = %02X, want STAT", gb.Bus.IRQ.Pending())
	}
	if gb.Bus.Read8(0xFF41, false)&statCoincidence == 0 {
		t.Error("coincidence flag should be set")
	}
}

// pixelAt returns the grey level of pixel (x, y).
func pixelAt(frame []byte, x, y int) uint8 {
	return frame[(y*Width+x)*3]
}

func runFrame(tb testing.TB, gb *GameBoy) []byte {
	tb.Helper()

	frame := make([]byte, FrameSize)
	gb.Bus.TimePasses(lineCycles * (lastLine + 1))
	gb.PPU.Frame(frame)
	return frame
}

func TestRenderBackground(t *testing.T) {
	gb := newTestGameBoy(t)
	vram := gb.PPU.VRAM.Data

	// Tile 1 is solid colour 3, tile 2 has a colour 1 left column.
	for row := range 8 {
		vram[16+row*2], vram[16+row*2+1] = 0xFF, 0xFF
		vram[32+row*2] = 0x80
	}
	vram[bgMapLow+1] = 1  // tile (1, 0)
	vram[bgMapLow+32] = 2 // tile (0, 1)

	gb.Bus.Write8(0xFF47, 0xE4) // identity palette
	frame := runFrame(t, gb)

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 255},
		{8, 0, 0},
		{15, 7, 0},
		{16, 0, 255},
		{0, 8, 170},
		{1, 8, 255},
	}
	for _, tt := range tests {
		if got := pixelAt(frame, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}

	// Scrolling moves the solid tile to the left edge.
	gb.Bus.Write8(0xFF43, 8)
	frame = runFrame(t, gb)
	if got := pixelAt(frame, 0, 0); got != 0 {
		t.Errorf("scrolled pixel(0,0) = %d, want 0", got)
	}
}

func TestRenderSignedTileData(t *testing.T) {
	gb := newTestGameBoy(t)
	vram := gb.PPU.VRAM.Data

	// Tile -1 in 8800 addressing mode.
	for row := range 8 {
		vram[signedTiles-16+row*2+1] = 0xFF
	}
	vram[bgMapLow] = 0xFF

	gb.Bus.Write8(0xFF47, 0xE4)
	gb.Bus.Write8(0xFF40, 0x81)
	frame := runFrame(t, gb)
	if got := pixelAt(frame, 0, 0); got != 85 {
		t.Errorf("pixel(0,0) = %d, want 85", got)
	}
}

func TestRenderSprites(t *testing.T) {
	gb := newTestGameBoy(t)
	vram := gb.PPU.VRAM.Data

	// Tile 1: colour 1 on the left column, colour 0 elsewhere.
	for row := range 8 {
		vram[16+row*2] = 0x80
	}
	gb.Bus.Write8(0xFF40, 0x93)
	gb.Bus.Write8(0xFF47, 0xE4)
	gb.Bus.Write8(0xFF48, 0xE4)
	gb.Bus.Write8(0xFF49, 0x1B)

	oam := &gb.PPU.OAM.Entries
	oam[0] = OAMEntry{Y: 16, X: 8, Tile: 1}
	oam[1] = OAMEntry{Y: 16, X: 20, Tile: 1, Attr: attrFlipX}
	oam[2] = OAMEntry{Y: 16, X: 30, Tile: 1, Attr: attrPalette}

	frame := runFrame(t, gb)
	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 170},  // sprite 0, OBP0
		{1, 0, 255},  // transparent
		{0, 8, 255},  // below the sprite
		{19, 0, 170}, // sprite 1, flipped
		{12, 0, 255},
		{22, 0, 85}, // sprite 2, OBP1
	}
	for _, tt := range tests {
		if got := pixelAt(frame, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderSpriteBehindBackground(t *testing.T) {
	gb := newTestGameBoy(t)
	vram := gb.PPU.VRAM.Data

	for row := range 8 {
		vram[16+row*2], vram[16+row*2+1] = 0xFF, 0xFF // tile 1: colour 3
		vram[32+row*2] = 0xFF                         // tile 2: colour 1
	}
	vram[bgMapLow] = 2 // BG colour 1 under the sprite at x=0..7

	gb.Bus.Write8(0xFF40, 0x93)
	gb.Bus.Write8(0xFF47, 0xE4)
	gb.Bus.Write8(0xFF48, 0xE4)
	gb.PPU.OAM.Entries[0] = OAMEntry{Y: 16, X: 12, Tile: 1, Attr: attrBehindBG}

	frame := runFrame(t, gb)
	if got := pixelAt(frame, 4, 0); got != 170 {
		t.Errorf("pixel over BG colour 1 = %d, want 170 (background)", got)
	}
	if got := pixelAt(frame, 8, 0); got != 0 {
		t.Errorf("pixel over BG colour 0 = %d, want 0 (sprite)", got)
	}
}

func TestLineSpritesLimit(t *testing.T) {
	var ppu PPU
	for i := range ppu.OAM.Entries {
		ppu.OAM.Entries[i] = OAMEntry{Y: 16, X: uint8(100 - i)}
	}

	sprites := ppu.lineSprites(0, 8)
	if len(sprites) != maxSpritesPerLine {
		t.Fatalf("%d sprites, want %d", len(sprites), maxSpritesPerLine)
	}
	// First 10 in OAM order, sorted by X.
	if sprites[0].X != 91 || sprites[9].X != 100 {
		t.Errorf("sprites X range = %d..%d, want 91..100", sprites[0].X, sprites[9].X)
	}
}

func TestWindow(t *testing.T) {
	gb := newTestGameBoy(t)
	vram := gb.PPU.VRAM.Data

	for row := range 8 {
		vram[16+row*2], vram[16+row*2+1] = 0xFF, 0xFF
	}
	for i := range 32 * 32 {
		vram[bgMapHigh+i] = 1
	}

	gb.Bus.Write8(0xFF47, 0xE4)
	gb.Bus.Write8(0xFF4A, 100) // WY
	gb.Bus.Write8(0xFF4B, 87)  // WX
	gb.Bus.Write8(0xFF40, 0x91|lcdcWinEnable|lcdcWinMap)

	frame := runFrame(t, gb)
	tests := []struct {
		x, y int
		want uint8
	}{
		{79, 100, 255},
		{80, 100, 0},
		{80, 99, 255},
		{159, 143, 0},
	}
	for _, tt := range tests {
		if got := pixelAt(frame, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}
