package hw

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is the operation of a decoded instruction.
type Op uint8

const (
	OpInvalid Op = iota
	NOP
	LD8     // B1 <- B2
	LD16    // W1 <- W2
	LDMemSP // (W1) <- SP
	LDHLSP  // HL <- SP+e
	PUSH
	POP
	ADD
	ADC
	SUB
	SBC
	AND
	XOR
	OR
	CP
	INC8
	DEC8
	INC16
	DEC16
	ADD16 // HL <- HL + W2
	ADDSP // SP <- SP + e
	DAA
	CPL
	SCF
	CCF
	RLCA
	RRCA
	RLA
	RRA
	RLC
	RRC
	RL
	RR
	SLA
	SRA
	SWAP
	SRL
	BIT
	SET
	RES
	JP
	JR
	CALL
	RET
	RETI
	RST
	HALT
	STOP
	DI
	EI

	opCount
)

var opNames = [opCount]string{
	OpInvalid: "???",
	NOP:       "NOP",
	LD8:       "LD",
	LD16:      "LD",
	LDMemSP:   "LD",
	LDHLSP:    "LD",
	PUSH:      "PUSH",
	POP:       "POP",
	ADD:       "ADD",
	ADC:       "ADC",
	SUB:       "SUB",
	SBC:       "SBC",
	AND:       "AND",
	XOR:       "XOR",
	OR:        "OR",
	CP:        "CP",
	INC8:      "INC",
	DEC8:      "DEC",
	INC16:     "INC",
	DEC16:     "DEC",
	ADD16:     "ADD",
	ADDSP:     "ADD",
	DAA:       "DAA",
	CPL:       "CPL",
	SCF:       "SCF",
	CCF:       "CCF",
	RLCA:      "RLCA",
	RRCA:      "RRCA",
	RLA:       "RLA",
	RRA:       "RRA",
	RLC:       "RLC",
	RRC:       "RRC",
	RL:        "RL",
	RR:        "RR",
	SLA:       "SLA",
	SRA:       "SRA",
	SWAP:      "SWAP",
	SRL:       "SRL",
	BIT:       "BIT",
	SET:       "SET",
	RES:       "RES",
	JP:        "JP",
	JR:        "JR",
	CALL:      "CALL",
	RET:       "RET",
	RETI:      "RETI",
	RST:       "RST",
	HALT:      "HALT",
	STOP:      "STOP",
	DI:        "DI",
	EI:        "EI",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Instr is a decoded instruction. Which operand fields are meaningful
// depends on Op: 8-bit operations use B1 (destination) and B2 (source),
// 16-bit ones use W1 and W2.
type Instr struct {
	Op     Op
	B1, B2 Byte
	W1, W2 Word
	N      uint8 // bit index for BIT/SET/RES, vector for RST
	Cond   Cond

	Len    uint8 // encoded length in bytes
	Cycles int   // base cycle cost

	Opcode   uint8
	Prefixed bool // 0xCB-prefixed
	Bytes    [3]uint8
}

// Encoding returns the raw instruction bytes.
func (in *Instr) Encoding() []uint8 {
	return in.Bytes[:in.Len]
}

// Operands returns the disassembled operands.
func (in *Instr) Operands() string {
	var ops []string
	if !in.Cond.Always() {
		ops = append(ops, in.Cond.String())
	}

	switch in.Op {
	case LD8:
		ops = append(ops, in.B1.String(), in.B2.String())
	case LD16:
		ops = append(ops, in.W1.String(), in.W2.String())
	case LDMemSP:
		ops = append(ops, "("+in.W1.String()+")", "SP")
	case LDHLSP:
		ops = append(ops, "HL", in.W2.String())
	case PUSH, POP, INC16, DEC16:
		ops = append(ops, in.W1.String())
	case ADD, ADC, SBC:
		ops = append(ops, "A", in.B2.String())
	case SUB, AND, XOR, OR, CP:
		ops = append(ops, in.B2.String())
	case INC8, DEC8, RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL:
		ops = append(ops, in.B1.String())
	case ADD16:
		ops = append(ops, "HL", in.W2.String())
	case ADDSP:
		ops = append(ops, "SP", in.B2.String())
	case BIT, SET, RES:
		ops = append(ops, strconv.Itoa(int(in.N)), in.B1.String())
	case JP, CALL:
		ops = append(ops, in.W1.String())
	case JR:
		ops = append(ops, strconv.Itoa(int(int8(in.B2.Imm))))
	case RST:
		ops = append(ops, fmt.Sprintf("$%02X", in.N))
	}
	return strings.Join(ops, ",")
}

func (in *Instr) String() string {
	if opers := in.Operands(); opers != "" {
		return in.Op.String() + " " + opers
	}
	return in.Op.String()
}
