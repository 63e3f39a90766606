package hw

import (
	"slices"
)

const (
	maxSpritesPerLine = 10

	bgMapLow    = 0x1800 // VRAM offset of the 9800 tile map
	bgMapHigh   = 0x1C00 // VRAM offset of the 9C00 tile map
	signedTiles = 0x1000 // VRAM offset of tile 0 in 8800 addressing
)

// tileRow returns the two bit planes of a row of the tile at VRAM offset
// base.
func (p *PPU) tileRow(base, row int) (lo, hi uint8) {
	vram := p.VRAM.Data
	off := (base + row*2) & 0x1FFF
	return vram[off], vram[off+1]
}

func pixel(lo, hi uint8, col int) uint8 {
	bit := 7 - col
	return (hi>>bit&1)<<1 | lo>>bit&1
}

// bgTile returns the VRAM offset of background/window tile number n.
func (p *PPU) bgTile(n uint8) int {
	if p.LCDC.Value&lcdcTileData != 0 {
		return int(n) * 16
	}
	return signedTiles + int(int8(n))*16
}

func (p *PPU) mapColor(mapBase int, x, y int) uint8 {
	n := p.VRAM.Data[mapBase+(y/8)*32+x/8]
	lo, hi := p.tileRow(p.bgTile(n), y%8)
	return pixel(lo, hi, x%8)
}

// renderLine composes line ly into the frame buffer.
func (p *PPU) renderLine(ly uint8) {
	row := p.frame[int(ly)*Width*3:][:Width*3]

	if !p.enabled() {
		for i := range row {
			row[i] = shades[0]
		}
		return
	}

	// Colour index of each background pixel, before palette. Sprite
	// priority is resolved against it.
	var bg [Width]uint8

	lcdc := p.LCDC.Value
	if lcdc&lcdcBGEnable != 0 {
		p.renderBackground(ly, &bg)
		p.renderWindow(ly, &bg)
	}

	bgp := palette(p.BGP.Value)
	for x := range Width {
		bgp.apply(bg[x], row[x*3:])
	}

	if lcdc&lcdcOBJEnable != 0 {
		p.renderSprites(ly, &bg, row)
	}
}

func (p *PPU) renderBackground(ly uint8, bg *[Width]uint8) {
	mapBase := bgMapLow
	if p.LCDC.Value&lcdcBGMap != 0 {
		mapBase = bgMapHigh
	}

	y := int(ly + p.SCY.Value)
	scx := p.SCX.Value
	for x := range Width {
		bg[x] = p.mapColor(mapBase, int(uint8(x)+scx), y)
	}
}

func (p *PPU) renderWindow(ly uint8, bg *[Width]uint8) {
	wx := int(p.WX.Value) - 7
	if p.LCDC.Value&lcdcWinEnable == 0 || ly < p.WY.Value || wx >= Width {
		return
	}

	mapBase := bgMapLow
	if p.LCDC.Value&lcdcWinMap != 0 {
		mapBase = bgMapHigh
	}
	for x := max(wx, 0); x < Width; x++ {
		bg[x] = p.mapColor(mapBase, x-wx, p.winLine)
	}
	p.winLine++
}

// lineSprites returns the sprites visible on line ly: the first 10 in OAM
// order, sorted by X.
func (p *PPU) lineSprites(ly uint8, height int) []OAMEntry {
	sprites := make([]OAMEntry, 0, maxSpritesPerLine)
	for _, e := range p.OAM.Entries {
		top := int(e.Y) - 16
		if int(ly) >= top && int(ly) < top+height {
			sprites = append(sprites, e)
			if len(sprites) == maxSpritesPerLine {
				break
			}
		}
	}
	slices.SortStableFunc(sprites, func(a, b OAMEntry) int {
		return int(a.X) - int(b.X)
	})
	return sprites
}

func (p *PPU) renderSprites(ly uint8, bg *[Width]uint8, row []byte) {
	height := 8
	if p.LCDC.Value&lcdcOBJSize != 0 {
		height = 16
	}
	sprites := p.lineSprites(ly, height)
	if len(sprites) == 0 {
		return
	}

	for x := range Width {
		for _, s := range sprites {
			col := x - (int(s.X) - 8)
			if col < 0 || col >= 8 {
				continue
			}
			if s.Attr&attrFlipX != 0 {
				col = 7 - col
			}
			line := int(ly) - (int(s.Y) - 16)
			if s.Attr&attrFlipY != 0 {
				line = height - 1 - line
			}
			tile := s.Tile
			if height == 16 {
				tile &= 0xFE
			}

			lo, hi := p.tileRow(int(tile)*16, line)
			color := pixel(lo, hi, col)
			if color == 0 {
				// Transparent: let lower priority sprites show.
				continue
			}

			// The first opaque sprite pixel wins, even when it is hidden
			// behind the background.
			if s.Attr&attrBehindBG == 0 || bg[x] == 0 {
				pal := palette(p.OBP0.Value)
				if s.Attr&attrPalette != 0 {
					pal = palette(p.OBP1.Value)
				}
				pal.apply(color, row[x*3:])
			}
			break
		}
	}
}
