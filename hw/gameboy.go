package hw

import (
	"fmt"

	"dmgo/emu/log"
	"dmgo/hw/input"
	"dmgo/hw/mappers"
)

// Line whose completion marks the end of a frame.
const frameLine = vblankStart - 1

// GameBoy ties the CPU, the bus and the PPU together and drives them.
type GameBoy struct {
	CPU *CPU
	Bus *Bus
	PPU *PPU

	Frames int64
}

// New creates a console with cart inserted. boot is the boot program, or nil
// to start directly in post-boot state.
func New(cart *mappers.Cartridge, boot []byte) (*GameBoy, error) {
	if len(boot) > 0 && len(boot) != BootROMSize {
		return nil, fmt.Errorf("boot rom must be %d bytes, got %d", BootROMSize, len(boot))
	}

	ppu := NewPPU()
	bus := NewBus(ppu, cart, boot)
	gb := &GameBoy{
		CPU: NewCPU(bus),
		Bus: bus,
		PPU: ppu,
	}
	gb.Reset()
	return gb, nil
}

// Reset puts the console in power-up state, or in post-boot state when
// there's no boot program.
func (gb *GameBoy) Reset() {
	gb.PPU.Reset()
	gb.Bus.Cart.Reset()
	gb.Bus.InitBus()

	skipBoot := !gb.Bus.BootActive()
	gb.CPU.Reset(skipBoot)
	if skipBoot {
		gb.Bus.Write8(0xFF40, 0x91)
		gb.Bus.Write8(0xFF47, 0xFC)
	}
	gb.Frames = 0

	log.ModEmu.InfoZ("reset").
		Bool("boot", !skipBoot).
		Stringer("mapper", gb.Bus.Cart.Kind).
		End()
}

// Step executes one instruction, lets time pass accordingly and services a
// pending interrupt. It reports whether a frame has been completed.
func (gb *GameBoy) Step() (bool, error) {
	cycles, err := gb.CPU.Step()
	if err != nil {
		return false, err
	}
	done := completesFrame(gb.Bus.TimePasses(cycles))

	if vec, ok := gb.Bus.CheckInterrupt(gb.CPU.IME); ok {
		cycles := gb.CPU.Interrupt(vec)
		if completesFrame(gb.Bus.TimePasses(cycles)) {
			done = true
		}
	}
	return done, nil
}

func completesFrame(lines []uint8) bool {
	for _, l := range lines {
		if l == frameLine {
			return true
		}
	}
	return false
}

// RunFrame applies the input state and runs until the next frame is
// complete, which is copied into frame (FrameSize bytes, RGB).
func (gb *GameBoy) RunFrame(buttons input.Buttons, frame []byte) error {
	gb.Bus.UpdateInput(buttons)
	for {
		done, err := gb.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	gb.PPU.Frame(frame)
	gb.Frames++
	return nil
}
