package hw

import (
	"fmt"
	"io"

	"dmgo/hw/hwio"
)

type tracer struct {
	w   io.Writer
	buf []byte
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func appendHex8(buf []byte, v uint8) []byte {
	var tmp [2]byte
	hexEncode(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendHex16(buf []byte, v uint16) []byte {
	buf = appendHex8(buf, uint8(v>>8))
	return appendHex8(buf, uint8(v))
}

func appendReg16(buf []byte, name string, v uint16) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':')
	buf = appendHex16(buf, v)
	return append(buf, ' ')
}

// write the execution trace line for the instruction about to be executed.
func (t *tracer) write(c *CPU, in *Instr) {
	dis := DisasmOp{
		PC:     c.PC,
		Buf:    in.Encoding(),
		Opcode: in.Op.String(),
		Oper:   in.Operands(),
	}
	buf := append(t.buf[:0], dis.Bytes()...)

	buf = append(buf, "A:"...)
	buf = appendHex8(buf, c.A)
	buf = append(buf, " F:"...)
	buf = append(buf, c.F.String()...)
	buf = append(buf, ' ')
	buf = appendReg16(buf, "BC", c.Pair(PairBC))
	buf = appendReg16(buf, "DE", c.Pair(PairDE))
	buf = appendReg16(buf, "HL", c.Pair(PairHL))
	buf = appendReg16(buf, "SP", c.SP)
	buf = append(buf, "LY:"...)
	buf = appendHex8(buf, c.Bus.Read8(0xFF44, true))

	buf = fmt.Appendf(buf, " CYC:%d\n", c.Cycles)
	t.buf = buf
	t.w.Write(buf)
}

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

// Disassemble decodes the instruction at pc, without side effects.
func Disassemble(bus hwio.BankIO8, pc uint16) (DisasmOp, error) {
	in, err := Disasm(bus, pc)
	if err != nil {
		return DisasmOp{PC: pc, Buf: in.Encoding(), Opcode: "???"}, err
	}
	return DisasmOp{
		PC:     pc,
		Buf:    in.Encoding(),
		Opcode: in.Op.String(),
		Oper:   in.Operands(),
	}, nil
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 36
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) >= totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}
