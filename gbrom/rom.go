// Package gbrom reads Game Boy cartridge images and decodes their header.
package gbrom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"dmgo/emu/log"
)

var modRom = log.NewModule("rom")

const (
	// MinSize is the size of the smallest valid image: one 16KiB bank, which
	// contains the header.
	MinSize = 0x4000

	// MaxSize is the size of the biggest image we accept (512 banks of 16KiB).
	MaxSize = 8 << 20

	headerEnd = 0x150
)

var (
	ErrTooSmall = errors.New("image too small")
	ErrTooBig   = errors.New("image larger than 8MiB")
)

// CartType is the cartridge type byte at 0x147.
type CartType uint8

const (
	TypeROM            CartType = 0x00
	TypeMBC1           CartType = 0x01
	TypeMBC1RAM        CartType = 0x02
	TypeMBC1RAMBattery CartType = 0x03
	TypeROMRAM         CartType = 0x08
	TypeROMRAMBattery  CartType = 0x09
)

var typeNames = map[CartType]string{
	TypeROM:            "ROM ONLY",
	TypeMBC1:           "MBC1",
	TypeMBC1RAM:        "MBC1+RAM",
	TypeMBC1RAMBattery: "MBC1+RAM+BATTERY",
	TypeROMRAM:         "ROM+RAM",
	TypeROMRAMBattery:  "ROM+RAM+BATTERY",
}

func (t CartType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%02X)", uint8(t))
}

// IsMBC1 reports whether the cartridge uses the MBC1 bank controller.
func (t CartType) IsMBC1() bool {
	return t >= TypeMBC1 && t <= TypeMBC1RAMBattery
}

// Rom is a cartridge image.
type Rom struct {
	Header
	Data []byte
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return 0, err
	}
	if err := rom.load(buf); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

// Decode decodes a cartridge image held in memory.
func Decode(buf []byte) (*Rom, error) {
	rom := new(Rom)
	if err := rom.load(buf); err != nil {
		return nil, err
	}
	return rom, nil
}

func (rom *Rom) load(buf []byte) error {
	switch {
	case len(buf) > MaxSize:
		return ErrTooBig
	case len(buf) < MinSize:
		return fmt.Errorf("%w: %d bytes", ErrTooSmall, len(buf))
	}
	if err := rom.Header.decode(buf); err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}
	rom.Data = buf

	if sum := rom.ComputeChecksum(); sum != rom.Checksum {
		modRom.WarnZ("header checksum mismatch").
			Hex8("want", rom.Checksum).
			Hex8("got", sum).
			String("title", rom.Title).
			End()
	}
	return nil
}

// Header holds the decoded cartridge header fields.
//
// RAMSizeCode is read at 0x149, not 0x148: on real cartridges 0x148 holds
// the ROM size code.
type Header struct {
	raw [headerEnd]byte

	Title        string
	Manufacturer string
	CGBFlag      uint8
	Type         CartType
	ROMSizeCode  uint8
	RAMSizeCode  uint8
	Checksum     uint8

	// RAMSize is the size of external RAM, in bytes, derived from
	// RAMSizeCode.
	RAMSize int
}

var ramSizes = map[uint8]int{
	0: 0,
	1: 0x0800,
	2: 0x2000,
	3: 0x8000,
	4: 0x20000,
	5: 0x10000,
}

func trimField(p []byte) string {
	s := string(p)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " ")
}

func (hdr *Header) decode(p []byte) error {
	if len(p) < headerEnd {
		return ErrTooSmall
	}
	copy(hdr.raw[:], p[:headerEnd])

	hdr.Title = trimField(p[0x134:0x13F])
	hdr.Manufacturer = trimField(p[0x13F:0x143])
	hdr.CGBFlag = p[0x143]
	hdr.Type = CartType(p[0x147])
	hdr.ROMSizeCode = p[0x148]
	hdr.RAMSizeCode = p[0x149]
	hdr.Checksum = p[0x14D]

	size, ok := ramSizes[hdr.RAMSizeCode]
	if !ok {
		return fmt.Errorf("unknown RAM size code %02X", hdr.RAMSizeCode)
	}
	hdr.RAMSize = size
	return nil
}

// ROMSize returns the ROM size announced by the header, in bytes.
func (hdr *Header) ROMSize() int {
	if hdr.ROMSizeCode > 8 {
		return 0
	}
	return 0x8000 << hdr.ROMSizeCode
}

// ComputeChecksum computes the header checksum over 0x134-0x14C.
func (hdr *Header) ComputeChecksum() uint8 {
	var sum uint8
	for _, b := range hdr.raw[0x134:0x14D] {
		sum = sum - b - 1
	}
	return sum
}

func (hdr *Header) String() string {
	return fmt.Sprintf("title=%q manufacturer=%q type=%s rom=%dKiB ram=%dKiB cgb=%02X",
		hdr.Title, hdr.Manufacturer, hdr.Type, hdr.ROMSize()/1024, hdr.RAMSize/1024, hdr.CGBFlag)
}

// PrintInfos prints the decoded header in a human readable form.
func (rom *Rom) PrintInfos(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title\t%s\n", rom.Title)
	fmt.Fprintf(tw, "Manufacturer\t%s\n", rom.Manufacturer)
	fmt.Fprintf(tw, "Cartridge type\t%s (%02X)\n", rom.Type, uint8(rom.Type))
	fmt.Fprintf(tw, "ROM size\t%dKiB (image: %d bytes)\n", rom.ROMSize()/1024, len(rom.Data))
	fmt.Fprintf(tw, "RAM size\t%dKiB\n", rom.RAMSize/1024)
	fmt.Fprintf(tw, "CGB flag\t%02X\n", rom.CGBFlag)

	status := "ok"
	if sum := rom.ComputeChecksum(); sum != rom.Checksum {
		status = fmt.Sprintf("mismatch, computed %02X", sum)
	}
	fmt.Fprintf(tw, "Header checksum\t%02X (%s)\n", rom.Checksum, status)
	tw.Flush()
}
