package mappers

import (
	"fmt"

	"dmgo/emu/log"
	"dmgo/gbrom"
)

var modMapper = log.NewModule("mapper")

// Load creates the cartridge mapper matching the rom header.
func Load(rom *gbrom.Rom) (*Cartridge, error) {
	desc, ok := All[rom.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported cartridge type %s", rom.Type)
	}

	ramsz := rom.RAMSize
	if desc.Kind == KindROM && desc.HasRAM && ramsz == 0 {
		ramsz = 0x2000
	}
	if !desc.HasRAM {
		ramsz = 0
	}

	cart := &Cartridge{
		Kind: desc.Kind,
		Name: desc.Name,
		rom:  rom.Data,
	}
	if ramsz > 0 {
		cart.ram = make([]byte, ramsz)
	}
	cart.Reset()

	modMapper.InfoZ("cartridge loaded").
		String("mapper", desc.Name).
		String("title", rom.Title).
		Int("rom", len(cart.rom)).
		Int("ram", len(cart.ram)).
		End()
	return cart, nil
}

// None returns the inert mapper used when no cartridge is inserted.
func None() *Cartridge {
	return &Cartridge{Kind: KindNone, Name: "none"}
}

type MapperDesc struct {
	Name   string
	Kind   Kind
	HasRAM bool
}

var All = map[gbrom.CartType]MapperDesc{
	gbrom.TypeROM:            {Name: "ROM", Kind: KindROM},
	gbrom.TypeROMRAM:         {Name: "ROM+RAM", Kind: KindROM, HasRAM: true},
	gbrom.TypeROMRAMBattery:  {Name: "ROM+RAM+BATTERY", Kind: KindROM, HasRAM: true},
	gbrom.TypeMBC1:           {Name: "MBC1", Kind: KindMBC1},
	gbrom.TypeMBC1RAM:        {Name: "MBC1+RAM", Kind: KindMBC1, HasRAM: true},
	gbrom.TypeMBC1RAMBattery: {Name: "MBC1+RAM+BATTERY", Kind: KindMBC1, HasRAM: true},
}
