package hw

// operand access

func (c *CPU) readByte(b *Byte) uint8 {
	switch b.Kind {
	case ByteReg:
		return *c.reg8(b.Reg)
	case ByteImm:
		return b.Imm
	case ByteMem:
		return c.Read8(c.readWord(&b.Addr))
	}
	panic(&OperandError{Operand: b.String(), PC: c.curPC})
}

func (c *CPU) writeByte(op Op, b *Byte, val uint8) {
	switch b.Kind {
	case ByteReg:
		*c.reg8(b.Reg) = val
		return
	case ByteMem:
		c.Write8(c.readWord(&b.Addr), val)
		return
	}
	panic(&OperandError{Op: op, Operand: b.String(), PC: c.curPC})
}

// readWord evaluates a word operand. HL+ and HL- update HL once per call.
func (c *CPU) readWord(w *Word) uint16 {
	switch w.Kind {
	case WordPair:
		return c.Pair(w.Pair)
	case WordImm:
		return w.Imm
	case WordSP:
		return c.SP
	case WordSPOffset:
		return c.SP + uint16(int8(w.Imm))
	case WordPC:
		return c.PC
	case WordHigh:
		return 0xFF00 | w.Imm&0xFF
	case WordHighC:
		return 0xFF00 | uint16(c.C)
	case WordHLInc:
		hl := c.Pair(PairHL)
		c.SetPair(PairHL, hl+1)
		return hl
	case WordHLDec:
		hl := c.Pair(PairHL)
		c.SetPair(PairHL, hl-1)
		return hl
	}
	panic(&OperandError{Operand: w.String(), PC: c.curPC})
}

func (c *CPU) writeWord(op Op, w *Word, val uint16) {
	switch w.Kind {
	case WordPair:
		c.SetPair(w.Pair, val)
		return
	case WordSP:
		c.SP = val
		return
	case WordPC:
		c.PC = val
		return
	}
	panic(&OperandError{Op: op, Operand: w.String(), PC: c.curPC})
}

func (c *CPU) cond(cc Cond) bool {
	return cc.Always() || c.F.has(cc.Flag) == cc.State
}

// taken returns the surcharge to pay for a control transfer predicated on
// cc, or -1 if the transfer is not taken.
func (c *CPU) taken(cc Cond) int {
	switch {
	case cc.Always():
		return 0
	case c.cond(cc):
		return condSurcharge
	}
	return -1
}

// exec applies the semantics of in and returns the number of cycles spent
// on top of the base cost.
func (c *CPU) exec(in *Instr) int {
	switch in.Op {
	case NOP:

	case LD8:
		c.writeByte(in.Op, &in.B1, c.readByte(&in.B2))
	case LD16:
		c.writeWord(in.Op, &in.W1, c.readWord(&in.W2))
	case LDMemSP:
		c.Write16(c.readWord(&in.W1), c.SP)
	case LDHLSP:
		c.writeWord(in.Op, &in.W1, c.addSPOffset(uint8(in.W2.Imm)))

	case PUSH:
		c.push16(c.readWord(&in.W1))
	case POP:
		c.writeWord(in.Op, &in.W1, c.pop16())

	case ADD:
		c.A = c.add8(c.A, c.readByte(&in.B2), false)
	case ADC:
		c.A = c.add8(c.A, c.readByte(&in.B2), true)
	case SUB:
		c.A = c.sub8(c.A, c.readByte(&in.B2), false)
	case SBC:
		c.A = c.sub8(c.A, c.readByte(&in.B2), true)
	case CP:
		c.sub8(c.A, c.readByte(&in.B2), false)
	case AND:
		c.A &= c.readByte(&in.B2)
		c.F = FlagH
		c.F.set(FlagZ, c.A == 0)
	case XOR:
		c.A ^= c.readByte(&in.B2)
		c.F = 0
		c.F.set(FlagZ, c.A == 0)
	case OR:
		c.A |= c.readByte(&in.B2)
		c.F = 0
		c.F.set(FlagZ, c.A == 0)

	case INC8, DEC8:
		// The operand may be (HL): evaluate its address once.
		b := c.resolve(&in.B1)
		v := c.readByte(&b)
		if in.Op == INC8 {
			v = c.inc8(v)
		} else {
			v = c.dec8(v)
		}
		c.writeByte(in.Op, &b, v)
	case INC16:
		c.writeWord(in.Op, &in.W1, c.readWord(&in.W1)+1)
	case DEC16:
		c.writeWord(in.Op, &in.W1, c.readWord(&in.W1)-1)
	case ADD16:
		c.SetPair(PairHL, c.add16(c.Pair(PairHL), c.readWord(&in.W2)))
	case ADDSP:
		c.SP = c.addSPOffset(c.readByte(&in.B2))

	case DAA:
		c.daa()
	case CPL:
		c.A = ^c.A
		c.F |= FlagN | FlagH
	case SCF:
		c.F = c.F&FlagZ | FlagC
	case CCF:
		c.F = c.F&(FlagZ|FlagC) ^ FlagC

	case RLCA, RRCA, RLA, RRA:
		c.A = c.rotate(in.Op, c.A)
		c.F.set(FlagZ, false)
	case RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL:
		b := c.resolve(&in.B1)
		c.writeByte(in.Op, &b, c.rotate(in.Op, c.readByte(&b)))

	case BIT:
		v := c.readByte(&in.B1)
		c.F = c.F&FlagC | FlagH
		c.F.set(FlagZ, v&(1<<in.N) == 0)
	case SET:
		b := c.resolve(&in.B1)
		c.writeByte(in.Op, &b, c.readByte(&b)|1<<in.N)
	case RES:
		b := c.resolve(&in.B1)
		c.writeByte(in.Op, &b, c.readByte(&b)&^(1<<in.N))

	case JP:
		extra := c.taken(in.Cond)
		if extra < 0 {
			return 0
		}
		c.PC = c.readWord(&in.W1)
		return extra
	case JR:
		extra := c.taken(in.Cond)
		if extra < 0 {
			return 0
		}
		c.PC += uint16(int8(c.readByte(&in.B2)))
		return extra
	case CALL:
		extra := c.taken(in.Cond)
		if extra < 0 {
			return 0
		}
		c.push16(c.PC)
		c.PC = c.readWord(&in.W1)
		return extra
	case RET:
		extra := c.taken(in.Cond)
		if extra < 0 {
			return 0
		}
		c.PC = c.pop16()
		return extra
	case RETI:
		c.PC = c.pop16()
		c.IME = true
		c.eiDelay = 0
	case RST:
		c.push16(c.PC)
		c.PC = uint16(in.N)

	case HALT:
		c.halted = true
	case STOP:
		c.stopped = true
	case DI:
		c.IME = false
		c.eiDelay = 0
	case EI:
		if !c.IME {
			// Takes effect after the next instruction.
			c.eiDelay = 2
		}

	default:
		panic(&OperandError{Op: in.Op, Operand: "-", PC: c.curPC})
	}
	return 0
}

// resolve returns b with its address operand, if any, evaluated. It is used
// by read-modify-write instructions so that a memory operand is addressed
// once.
func (c *CPU) resolve(b *Byte) Byte {
	if b.Kind != ByteMem {
		return *b
	}
	return mem(Word{Kind: WordImm, Imm: c.readWord(&b.Addr)})
}
