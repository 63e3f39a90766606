package hw

// Grey level of each of the 4 shades, from white to black.
var shades = [4]uint8{255, 170, 85, 0}

// A palette register maps each 2-bit colour index to a shade. Bits
// 33221100 hold the shade of colour 3, 2, 1 and 0.
type palette uint8

func (p palette) shade(color uint8) uint8 {
	return shades[uint8(p)>>(color*2)&0x03]
}

// apply writes the RGB triplet for color into dst.
func (p palette) apply(color uint8, dst []byte) {
	s := p.shade(color)
	dst[0], dst[1], dst[2] = s, s, s
}
