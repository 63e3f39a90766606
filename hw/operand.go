package hw

import "fmt"

type ByteKind uint8

const (
	ByteReg ByteKind = iota // 8-bit register
	ByteImm                 // immediate embedded in the instruction
	ByteMem                 // memory cell addressed by a Word operand
)

// Byte is an 8-bit operand.
type Byte struct {
	Kind ByteKind
	Reg  R8
	Imm  uint8
	Addr Word
}

type WordKind uint8

const (
	WordPair     WordKind = iota // register pair
	WordImm                      // 16-bit immediate
	WordSP                       // stack pointer
	WordSPOffset                 // SP plus signed 8-bit immediate
	WordPC                       // program counter
	WordHigh                     // 0xFF00 | 8-bit immediate
	WordHighC                    // 0xFF00 | C
	WordHLInc                    // HL, incremented after read
	WordHLDec                    // HL, decremented after read
)

// Word is a 16-bit operand.
type Word struct {
	Kind WordKind
	Pair R16
	Imm  uint16
}

func reg(r R8) Byte   { return Byte{Kind: ByteReg, Reg: r} }
func mem(w Word) Byte { return Byte{Kind: ByteMem, Addr: w} }
func pair(p R16) Word { return Word{Kind: WordPair, Pair: p} }

var (
	imm8    = Byte{Kind: ByteImm}
	imm16   = Word{Kind: WordImm}
	wordSP  = Word{Kind: WordSP}
	hlInc   = Word{Kind: WordHLInc}
	hlDec   = Word{Kind: WordHLDec}
	highImm = Word{Kind: WordHigh}
	highC   = Word{Kind: WordHighC}
	memHL   = mem(pair(PairHL))
)

func (b Byte) String() string {
	switch b.Kind {
	case ByteReg:
		return b.Reg.String()
	case ByteImm:
		return fmt.Sprintf("$%02X", b.Imm)
	case ByteMem:
		return "(" + b.Addr.String() + ")"
	}
	return "?"
}

func (w Word) String() string {
	switch w.Kind {
	case WordPair:
		return w.Pair.String()
	case WordImm:
		return fmt.Sprintf("$%04X", w.Imm)
	case WordSP:
		return "SP"
	case WordSPOffset:
		if off := int8(w.Imm); off < 0 {
			return fmt.Sprintf("SP-$%02X", -int(off))
		}
		return fmt.Sprintf("SP+$%02X", uint8(w.Imm))
	case WordPC:
		return "PC"
	case WordHigh:
		return fmt.Sprintf("$FF%02X", uint8(w.Imm))
	case WordHighC:
		return "$FF00+C"
	case WordHLInc:
		return "HL+"
	case WordHLDec:
		return "HL-"
	}
	return "?"
}

// Cond is the predicate of a conditional control transfer: the instruction
// is taken if Flag is in State. A zero Flag means unconditional.
type Cond struct {
	Flag  Flags
	State bool
}

var (
	always = Cond{}
	condNZ = Cond{Flag: FlagZ, State: false}
	condZ  = Cond{Flag: FlagZ, State: true}
	condNC = Cond{Flag: FlagC, State: false}
	condC  = Cond{Flag: FlagC, State: true}
)

func (c Cond) Always() bool { return c.Flag == 0 }

func (c Cond) String() string {
	s := ""
	if !c.State {
		s = "N"
	}
	switch c.Flag {
	case FlagZ:
		return s + "Z"
	case FlagC:
		return s + "C"
	}
	return ""
}
