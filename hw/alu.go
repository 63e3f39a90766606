package hw

func (c *CPU) add8(a, b uint8, withCarry bool) uint8 {
	var carry uint8
	if withCarry && c.F.has(FlagC) {
		carry = 1
	}
	r := uint16(a) + uint16(b) + uint16(carry)

	c.F = 0
	c.F.set(FlagZ, uint8(r) == 0)
	c.F.set(FlagH, a&0x0F+b&0x0F+carry > 0x0F)
	c.F.set(FlagC, r > 0xFF)
	return uint8(r)
}

func (c *CPU) sub8(a, b uint8, withCarry bool) uint8 {
	var carry int
	if withCarry && c.F.has(FlagC) {
		carry = 1
	}
	r := int(a) - int(b) - carry

	c.F = FlagN
	c.F.set(FlagZ, uint8(r) == 0)
	c.F.set(FlagH, int(a&0x0F)-int(b&0x0F)-carry < 0)
	c.F.set(FlagC, r < 0)
	return uint8(r)
}

func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	c.F.set(FlagZ, r == 0)
	c.F.set(FlagN, false)
	c.F.set(FlagH, v&0x0F == 0x0F)
	return r
}

func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	c.F.set(FlagZ, r == 0)
	c.F.set(FlagN, true)
	c.F.set(FlagH, v&0x0F == 0)
	return r
}

func (c *CPU) add16(a, b uint16) uint16 {
	r := uint32(a) + uint32(b)
	c.F.set(FlagN, false)
	c.F.set(FlagH, a&0x0FFF+b&0x0FFF > 0x0FFF)
	c.F.set(FlagC, r > 0xFFFF)
	return uint16(r)
}

// addSPOffset returns SP plus the signed offset e. Half-carry and carry come
// from the unsigned addition of the low bytes.
func (c *CPU) addSPOffset(e uint8) uint16 {
	sp := c.SP
	c.F = 0
	c.F.set(FlagH, sp&0x0F+uint16(e&0x0F) > 0x0F)
	c.F.set(FlagC, sp&0xFF+uint16(e) > 0xFF)
	return sp + uint16(int8(e))
}

func (c *CPU) daa() {
	a := c.A
	carry := c.F.has(FlagC)

	if !c.F.has(FlagN) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.F.has(FlagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.F.has(FlagH) {
			a -= 0x06
		}
	}

	c.A = a
	c.F.set(FlagZ, a == 0)
	c.F.set(FlagH, false)
	c.F.set(FlagC, carry)
}

// rotate implements the rotate and shift family. Flags are set as for the
// 0xCB-prefixed forms: Z from the result, N and H cleared, C from the bit
// shifted out.
func (c *CPU) rotate(op Op, v uint8) uint8 {
	var oldc uint8
	if c.F.has(FlagC) {
		oldc = 1
	}

	var r, out uint8
	switch op {
	case RLC, RLCA:
		out = v >> 7
		r = v<<1 | out
	case RRC, RRCA:
		out = v & 1
		r = v>>1 | out<<7
	case RL, RLA:
		out = v >> 7
		r = v<<1 | oldc
	case RR, RRA:
		out = v & 1
		r = v>>1 | oldc<<7
	case SLA:
		out = v >> 7
		r = v << 1
	case SRA:
		out = v & 1
		r = v>>1 | v&0x80
	case SWAP:
		r = v<<4 | v>>4
	case SRL:
		out = v & 1
		r = v >> 1
	}

	c.F = 0
	c.F.set(FlagZ, r == 0)
	c.F.set(FlagC, out != 0)
	return r
}
