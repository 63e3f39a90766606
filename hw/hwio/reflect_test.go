package hwio

import "testing"

// lcd mimics a small register block: a status register with read-only low
// bits and a read hook, a control register with a write hook, and a VRAM
// window in a second bank.
type lcd struct {
	CTRL   Reg8 `hwio:"offset=0x40,reset=0x91,wcb"`
	STAT   Reg8 `hwio:"offset=0x41,reset=0x02,rwmask=0x78,rcb"`
	BGP    Reg8 `hwio:"offset=0x47,readonly,reset=0xFC"`
	LATCH  Reg8 `hwio:"offset=0x48,writeonly"`
	VRAM   Mem  `hwio:"bank=1,offset=0x0,size=0x2000"`
	writes []uint8
}

func (l *lcd) WriteCTRL(old, val uint8) { l.writes = append(l.writes, val) }
func (l *lcd) ReadSTAT(val uint8) uint8 { return val | 0x80 }

func TestInitRegs(t *testing.T) {
	l := &lcd{}
	if err := InitRegs(l); err != nil {
		t.Fatal(err)
	}

	if l.CTRL.Name != "CTRL" || l.STAT.Name != "STAT" {
		t.Errorf("names = %q, %q", l.CTRL.Name, l.STAT.Name)
	}
	if len(l.VRAM.Data) != 0x2000 || l.VRAM.VSize != 0x2000 {
		t.Errorf("VRAM data=%d vsize=%d", len(l.VRAM.Data), l.VRAM.VSize)
	}

	tests := []struct {
		name      string
		reg       *Reg8
		write     uint8
		wantRead  uint8
		wantPeek  uint8
		wantValue uint8
	}{
		{"write callback", &l.CTRL, 0x11, 0x11, 0x11, 0x11},
		{"rwmask and read callback", &l.STAT, 0xFF, 0xFA, 0x7A, 0x7A},
		{"readonly", &l.BGP, 0x00, 0xFC, 0xFC, 0xFC},
		{"writeonly", &l.LATCH, 0x23, 0xFF, 0x23, 0x23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.reg.Write8(0, tt.write)
			if got := tt.reg.Read8(0, false); got != tt.wantRead {
				t.Errorf("read = %02X, want %02X", got, tt.wantRead)
			}
			if got := tt.reg.Read8(0, true); got != tt.wantPeek {
				t.Errorf("peek = %02X, want %02X", got, tt.wantPeek)
			}
			if tt.reg.Value != tt.wantValue {
				t.Errorf("value = %02X, want %02X", tt.reg.Value, tt.wantValue)
			}
		})
	}

	if len(l.writes) != 1 || l.writes[0] != 0x11 {
		t.Errorf("CTRL write callback got %X", l.writes)
	}
}

func TestBankGetRegs(t *testing.T) {
	l := &lcd{}
	MustInitRegs(l)

	regs, err := bankGetRegs(l, 0)
	if err != nil {
		t.Fatal(err)
	}
	wantOffsets := []uint16{0x40, 0x41, 0x47, 0x48}
	if len(regs) != len(wantOffsets) {
		t.Fatalf("bank 0 has %d regs, want %d", len(regs), len(wantOffsets))
	}
	for i, off := range wantOffsets {
		if regs[i].offset != off {
			t.Errorf("reg %d offset = %X, want %X", i, regs[i].offset, off)
		}
	}
	if regs[0].regPtr != &l.CTRL {
		t.Errorf("reg 0 points to %v, want CTRL", regs[0].regPtr)
	}

	regs, err = bankGetRegs(l, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 1 || regs[0].regPtr != &l.VRAM {
		t.Fatalf("bank 1 = %+v, want VRAM only", regs)
	}
}

func TestInitRegsErrors(t *testing.T) {
	type tooBigReset struct {
		R Reg8 `hwio:"reset=0x123"`
	}
	type tooBigMask struct {
		R Reg8 `hwio:"rwmask=0x123"`
	}
	type missingCb struct {
		R Reg8 `hwio:"rcb"`
	}

	for _, bank := range []any{&tooBigReset{}, &tooBigMask{}, &missingCb{}, tooBigReset{}} {
		if err := InitRegs(bank); err == nil {
			t.Errorf("InitRegs(%T) should fail", bank)
		}
	}
}

func TestMemMirroring(t *testing.T) {
	type banks struct {
		HRAM Mem `hwio:"offset=0,size=0x80,vsize=0x7F"`
	}
	b := &banks{}
	MustInitRegs(b)
	if len(b.HRAM.Data) != 0x80 || b.HRAM.VSize != 0x7F {
		t.Fatalf("HRAM data=%d vsize=%d", len(b.HRAM.Data), b.HRAM.VSize)
	}

	tbl := NewTable("test")
	tbl.MapBank(0xFF80, b, 0)
	tbl.Write8(0xFFFE, 0x5A)
	if b.HRAM.Data[0x7E] != 0x5A {
		t.Errorf("HRAM[7E] = %02X, want 5A", b.HRAM.Data[0x7E])
	}
	if _, err := tbl.Read(0xFFFF, false); err == nil {
		t.Errorf("FFFF must not be covered by HRAM")
	}
}
