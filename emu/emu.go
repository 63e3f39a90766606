package emu

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"dmgo/emu/log"
	"dmgo/gbrom"
	"dmgo/hw"
	"dmgo/hw/input"
	"dmgo/hw/mappers"
)

// Output presents frames to the user.
type Output interface {
	// Poll processes host events and returns false when the user wants to
	// quit.
	Poll() bool
	Present(frame []byte)
	Close() error
}

// InputProvider samples the state of the buttons once per frame.
type InputProvider interface {
	LoadState() input.Buttons
}

type Emulator struct {
	GB *hw.GameBoy

	link *Link
	out  Output
	in   InputProvider
	cfg  EmulationConfig

	frame  []byte // last frame received from the core
	frames int64
}

// PowerUp creates a console with rom inserted, ready to run. With a nil rom,
// the slot is left empty.
func PowerUp(rom *gbrom.Rom, cfg Config) (*hw.GameBoy, error) {
	var err error
	cart := mappers.None()
	if rom != nil {
		if cart, err = mappers.Load(rom); err != nil {
			return nil, fmt.Errorf("cartridge: %w", err)
		}
	}

	var boot []byte
	if cfg.Emulation.BootROM != "" {
		if boot, err = os.ReadFile(cfg.Emulation.BootROM); err != nil {
			return nil, fmt.Errorf("boot rom: %w", err)
		}
	}

	gb, err := hw.New(cart, boot)
	if err != nil {
		return nil, err
	}
	gb.Bus.Table.LogUnmapped = cfg.Emulation.LogUnmapped

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		gb.CPU.SetTraceOutput(cfg.TraceOut)
	}
	return gb, nil
}

// Launch powers the console up, shows the window and plugs the keyboard. It
// doesn't start the emulation loop, call Run() for that.
func Launch(rom *gbrom.Rom, cfg Config) (*Emulator, error) {
	gb, err := PowerUp(rom, cfg)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %s", err)
	}

	title := "dmgo"
	if rom != nil && rom.Title != "" {
		title += " - " + rom.Title
	}
	out, err := hw.NewOutput(hw.OutputConfig{
		Title:        title,
		ScaleFactor:  cfg.Video.Scale,
		Monitor:      cfg.Video.Monitor,
		DisableVSync: cfg.Video.DisableVSync,
	})
	if err != nil {
		return nil, err
	}

	return New(gb, out, input.NewProvider(cfg.Input), cfg.Emulation), nil
}

// New creates an emulator running gb. out and in may be nil, for headless
// runs.
func New(gb *hw.GameBoy, out Output, in InputProvider, cfg EmulationConfig) *Emulator {
	return &Emulator{
		GB:    gb,
		link:  NewLink(),
		out:   out,
		in:    in,
		cfg:   cfg,
		frame: make([]byte, hw.FrameSize),
	}
}

// Run runs the emulation until the user quits, the frame limit is reached,
// ctx is canceled or the core fails. The core runs on its own goroutine and
// exchanges frames with the host loop through a Link.
func (e *Emulator) Run(ctx context.Context) error {
	log.AddContext(e.GB.CPU)
	defer log.RemoveContext(e.GB.CPU)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(e.core)
	g.Go(func() error { return e.host(ctx) })
	err := g.Wait()

	if e.out != nil {
		if cerr := e.out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	log.ModEmu.InfoZ("Emulation loop exited").Int64("frames", e.frames).End()
	return err
}

func (e *Emulator) core() error {
	defer e.link.Close()

	var bs input.Buttons
	for {
		if err := e.GB.RunFrame(bs, e.link.BackBuffer()); err != nil {
			log.ModEmu.ErrorZ("emulation stopped").Error("err", err).End()
			return err
		}

		var ok bool
		if bs, ok = e.link.Publish(); !ok {
			return nil
		}
	}
}

func (e *Emulator) host(ctx context.Context) error {
	defer e.link.Close()

	var bs input.Buttons
	for ctx.Err() == nil {
		if e.out != nil && !e.out.Poll() {
			break
		}
		if e.in != nil {
			bs = e.in.LoadState()
		}
		if !e.link.Exchange(bs, e.frame) {
			break
		}
		e.frames++
		if e.out != nil {
			e.out.Present(e.frame)
		}
		if e.cfg.MaxFrames > 0 && e.frames >= e.cfg.MaxFrames {
			break
		}
	}
	return nil
}

// Frames returns the number of frames received by the host.
func (e *Emulator) Frames() int64 { return e.frames }

// Frame returns the last frame received by the host.
func (e *Emulator) Frame() []byte { return e.frame }
