package hw

import "fmt"

// Flags is the F register. Only the high nibble is used.
type Flags uint8

const (
	FlagC Flags = 1 << (iota + 4)
	FlagH
	FlagN
	FlagZ
)

func (f Flags) String() string {
	const bits = "znhcZNHC"

	s := make([]byte, 4)
	for i := range 4 {
		ibit := (uint8(f) >> (7 - i)) & 1
		s[i] = bits[i+int(4*ibit)]
	}
	return string(s)
}

func (f Flags) has(flag Flags) bool { return f&flag != 0 }

func (f *Flags) set(flag Flags, b bool) {
	if b {
		*f |= flag
	} else {
		*f &^= flag
	}
}

// R8 names an 8-bit register.
type R8 uint8

const (
	RegA R8 = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
)

func (r R8) String() string {
	return [...]string{"A", "B", "C", "D", "E", "H", "L"}[r]
}

// R16 names a register pair.
type R16 uint8

const (
	PairAF R16 = iota
	PairBC
	PairDE
	PairHL
)

func (p R16) String() string {
	return [...]string{"AF", "BC", "DE", "HL"}[p]
}

// Regs is the register file.
type Regs struct {
	A, B, C, D, E, H, L uint8
	F                   Flags
	SP, PC              uint16
}

func (r *Regs) reg8(n R8) *uint8 {
	switch n {
	case RegA:
		return &r.A
	case RegB:
		return &r.B
	case RegC:
		return &r.C
	case RegD:
		return &r.D
	case RegE:
		return &r.E
	case RegH:
		return &r.H
	case RegL:
		return &r.L
	}
	panic(fmt.Sprintf("invalid register %d", n))
}

func (r *Regs) Pair(p R16) uint16 {
	switch p {
	case PairAF:
		return uint16(r.A)<<8 | uint16(r.F)
	case PairBC:
		return uint16(r.B)<<8 | uint16(r.C)
	case PairDE:
		return uint16(r.D)<<8 | uint16(r.E)
	case PairHL:
		return uint16(r.H)<<8 | uint16(r.L)
	}
	panic(fmt.Sprintf("invalid register pair %d", p))
}

// SetPair writes a register pair. Writing AF clears the low nibble of F.
func (r *Regs) SetPair(p R16, v uint16) {
	hi, lo := uint8(v>>8), uint8(v)
	switch p {
	case PairAF:
		r.A, r.F = hi, Flags(lo&0xF0)
	case PairBC:
		r.B, r.C = hi, lo
	case PairDE:
		r.D, r.E = hi, lo
	case PairHL:
		r.H, r.L = hi, lo
	default:
		panic(fmt.Sprintf("invalid register pair %d", p))
	}
}

func (r Regs) String() string {
	return fmt.Sprintf("A:%02X F:%s B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC)
}
