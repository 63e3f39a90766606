package hw

// opdef is a dispatch table entry: an instruction template whose immediate
// operands are filled in at decode time.
type opdef struct {
	in    Instr
	valid bool
}

var (
	primary  [256]opdef
	extended [256]opdef
)

// Order of the 3-bit register field in opcodes.
var r8order = [8]Byte{
	reg(RegB), reg(RegC), reg(RegD), reg(RegE),
	reg(RegH), reg(RegL), memHL, reg(RegA),
}

var conds = [4]Cond{condNZ, condZ, condNC, condC}

func init() {
	buildPrimary()
	buildExtended()
}

func defop(tbl *[256]opdef, opcode int, cycles int, in Instr) {
	if tbl[opcode].valid {
		panic("duplicate opcode definition")
	}
	in.Opcode = uint8(opcode)
	in.Cycles = cycles
	tbl[opcode] = opdef{in: in, valid: true}
}

// cost returns regcost, or memcost if any of the operands is a memory cell.
func cost(regcost, memcost int, ops ...Byte) int {
	for _, b := range ops {
		if b.Kind == ByteMem {
			return memcost
		}
	}
	return regcost
}

func buildPrimary() {
	p := func(opcode, cycles int, in Instr) { defop(&primary, opcode, cycles, in) }

	p(0x00, 4, Instr{Op: NOP})
	p(0x07, 4, Instr{Op: RLCA})
	p(0x08, 20, Instr{Op: LDMemSP, W1: imm16})
	p(0x0F, 4, Instr{Op: RRCA})
	p(0x10, 4, Instr{Op: STOP, B2: imm8})
	p(0x17, 4, Instr{Op: RLA})
	p(0x18, 12, Instr{Op: JR, B2: imm8})
	p(0x1F, 4, Instr{Op: RRA})
	p(0x27, 4, Instr{Op: DAA})
	p(0x2F, 4, Instr{Op: CPL})
	p(0x37, 4, Instr{Op: SCF})
	p(0x3F, 4, Instr{Op: CCF})

	// 16-bit loads and arithmetic.
	for i, rr := range [4]Word{pair(PairBC), pair(PairDE), pair(PairHL), wordSP} {
		base := i << 4
		p(base|0x01, 12, Instr{Op: LD16, W1: rr, W2: imm16})
		p(base|0x03, 8, Instr{Op: INC16, W1: rr})
		p(base|0x09, 8, Instr{Op: ADD16, W1: pair(PairHL), W2: rr})
		p(base|0x0B, 8, Instr{Op: DEC16, W1: rr})
	}

	// Accumulator loads through register pairs.
	for i, addr := range [4]Word{pair(PairBC), pair(PairDE), hlInc, hlDec} {
		base := i << 4
		p(base|0x02, 8, Instr{Op: LD8, B1: mem(addr), B2: reg(RegA)})
		p(base|0x0A, 8, Instr{Op: LD8, B1: reg(RegA), B2: mem(addr)})
	}

	for i, r := range r8order {
		base := i << 3
		p(base|0x04, cost(4, 12, r), Instr{Op: INC8, B1: r})
		p(base|0x05, cost(4, 12, r), Instr{Op: DEC8, B1: r})
		p(base|0x06, cost(8, 12, r), Instr{Op: LD8, B1: r, B2: imm8})
	}

	for i, cc := range conds {
		base := i << 3
		p(0x20|base, 8, Instr{Op: JR, Cond: cc, B2: imm8})
		p(0xC0|base, 8, Instr{Op: RET, Cond: cc})
		p(0xC2|base, 12, Instr{Op: JP, Cond: cc, W1: imm16})
		p(0xC4|base, 12, Instr{Op: CALL, Cond: cc, W1: imm16})
	}

	// 0x40-0x7F: register to register loads, 0x76 is HALT.
	for i, dst := range r8order {
		for j, src := range r8order {
			opcode := 0x40 | i<<3 | j
			if opcode == 0x76 {
				p(opcode, 4, Instr{Op: HALT})
				continue
			}
			p(opcode, cost(4, 8, dst, src), Instr{Op: LD8, B1: dst, B2: src})
		}
	}

	// 0x80-0xBF: arithmetic and logic on the accumulator.
	alu := [8]Op{ADD, ADC, SUB, SBC, AND, XOR, OR, CP}
	for i, op := range alu {
		for j, src := range r8order {
			p(0x80|i<<3|j, cost(4, 8, src), Instr{Op: op, B1: reg(RegA), B2: src})
		}
		p(0xC6|i<<3, 8, Instr{Op: op, B1: reg(RegA), B2: imm8})
		p(0xC7|i<<3, 16, Instr{Op: RST, N: uint8(i << 3)})
	}

	for i, rr := range [4]Word{pair(PairBC), pair(PairDE), pair(PairHL), pair(PairAF)} {
		base := i << 4
		p(0xC1|base, 12, Instr{Op: POP, W1: rr})
		p(0xC5|base, 16, Instr{Op: PUSH, W1: rr})
	}

	p(0xC3, 16, Instr{Op: JP, W1: imm16})
	p(0xC9, 16, Instr{Op: RET})
	p(0xCD, 24, Instr{Op: CALL, W1: imm16})
	p(0xD9, 16, Instr{Op: RETI})
	p(0xE0, 12, Instr{Op: LD8, B1: mem(highImm), B2: reg(RegA)})
	p(0xE2, 8, Instr{Op: LD8, B1: mem(highC), B2: reg(RegA)})
	p(0xE8, 16, Instr{Op: ADDSP, B2: imm8})
	p(0xE9, 4, Instr{Op: JP, W1: pair(PairHL)})
	p(0xEA, 16, Instr{Op: LD8, B1: mem(imm16), B2: reg(RegA)})
	p(0xF0, 12, Instr{Op: LD8, B1: reg(RegA), B2: mem(highImm)})
	p(0xF2, 8, Instr{Op: LD8, B1: reg(RegA), B2: mem(highC)})
	p(0xF3, 4, Instr{Op: DI})
	p(0xF8, 12, Instr{Op: LDHLSP, W1: pair(PairHL), W2: Word{Kind: WordSPOffset}})
	p(0xF9, 8, Instr{Op: LD16, W1: wordSP, W2: pair(PairHL)})
	p(0xFA, 16, Instr{Op: LD8, B1: reg(RegA), B2: mem(imm16)})
	p(0xFB, 4, Instr{Op: EI})
}

func buildExtended() {
	p := func(opcode, cycles int, in Instr) {
		in.Prefixed = true
		defop(&extended, opcode, cycles, in)
	}

	rot := [8]Op{RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL}
	for i, op := range rot {
		for j, r := range r8order {
			p(i<<3|j, cost(8, 16, r), Instr{Op: op, B1: r})
		}
	}

	for bit := range 8 {
		for j, r := range r8order {
			n := uint8(bit)
			p(0x40|bit<<3|j, cost(8, 12, r), Instr{Op: BIT, N: n, B1: r})
			p(0x80|bit<<3|j, cost(8, 16, r), Instr{Op: RES, N: n, B1: r})
			p(0xC0|bit<<3|j, cost(8, 16, r), Instr{Op: SET, N: n, B1: r})
		}
	}
}
