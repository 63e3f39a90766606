package hw

import (
	"fmt"

	"dmgo/hw/hwio"
)

const prefixCB = 0xCB

// DecodeError is returned when the bytes at Addr do not encode a valid
// instruction.
type DecodeError struct {
	Opcode   uint8
	Extended bool // Opcode follows a 0xCB prefix
	Addr     uint16
}

func (e *DecodeError) Error() string {
	if e.Extended {
		return fmt.Sprintf("invalid opcode CB %02X at %04X", e.Opcode, e.Addr)
	}
	return fmt.Sprintf("invalid opcode %02X at %04X", e.Opcode, e.Addr)
}

// decoder reads instruction bytes from the bus.
type decoder struct {
	bus  hwio.BankIO8
	peek bool
	pc   uint16
	in   *Instr
}

func (d *decoder) next8() uint8 {
	v := d.bus.Read8(d.pc, d.peek)
	if d.in.Len < uint8(len(d.in.Bytes)) {
		d.in.Bytes[d.in.Len] = v
	}
	d.in.Len++
	d.pc++
	return v
}

func (d *decoder) next16() uint16 {
	lo := d.next8()
	hi := d.next8()
	return uint16(hi)<<8 | uint16(lo)
}

func (d *decoder) fillWord(w *Word) {
	switch w.Kind {
	case WordImm:
		w.Imm = d.next16()
	case WordHigh, WordSPOffset:
		w.Imm = uint16(d.next8())
	}
}

func (d *decoder) fillByte(b *Byte) {
	switch b.Kind {
	case ByteImm:
		b.Imm = d.next8()
	case ByteMem:
		d.fillWord(&b.Addr)
	}
}

// Decode decodes the instruction at addr. The returned instruction carries
// its encoded length and base cycle cost. Decode reads the opcode bytes and
// immediates from bus, nothing else.
func Decode(bus hwio.BankIO8, addr uint16) (Instr, error) {
	return decode(bus, addr, false)
}

// Disasm is like Decode but uses side-effect free reads.
func Disasm(bus hwio.BankIO8, addr uint16) (Instr, error) {
	return decode(bus, addr, true)
}

func decode(bus hwio.BankIO8, addr uint16, peek bool) (Instr, error) {
	var in Instr
	d := decoder{bus: bus, peek: peek, pc: addr, in: &in}

	opcode := d.next8()
	def := &primary[opcode]
	if opcode == prefixCB {
		opcode = d.next8()
		def = &extended[opcode]
		if !def.valid {
			return in, &DecodeError{Opcode: opcode, Extended: true, Addr: addr}
		}
	} else if !def.valid {
		return in, &DecodeError{Opcode: opcode, Addr: addr}
	}

	raw, n := in.Bytes, in.Len
	in = def.in
	in.Bytes, in.Len = raw, n

	d.fillByte(&in.B1)
	d.fillByte(&in.B2)
	d.fillWord(&in.W1)
	d.fillWord(&in.W2)
	return in, nil
}
