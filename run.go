package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"

	"dmgo/emu"
	"dmgo/emu/log"
	"dmgo/gbrom"
	"dmgo/hw"
)

// runMain runs the emulator with the given rom.
func runMain(args Run) {
	cfg := emu.LoadConfigOrDefault()
	if args.BootROM != "" {
		cfg.Emulation.BootROM = args.BootROM
	}
	if args.Frames > 0 {
		cfg.Emulation.MaxFrames = args.Frames
	}
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}
	cfg.Video.Monitor = args.Monitor

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	}

	rom, err := gbrom.Open(args.RomPath)
	checkf(err, "failed to open rom")

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var emulator *emu.Emulator
	if args.Headless {
		gb, err := emu.PowerUp(rom, cfg)
		checkf(err, "failed to start emulator")
		emulator = emu.New(gb, nil, nil, cfg.Emulation)
		err = emulator.Run(ctx)
		checkf(err, "emulation error")
	} else {
		var runErr error
		sdl.Main(func() {
			emulator, runErr = emu.Launch(rom, cfg)
			if runErr != nil {
				return
			}
			runErr = emulator.Run(ctx)
		})
		checkf(runErr, "emulation error")
	}

	if args.Screenshot != "" {
		checkf(hw.SaveAsPNG(emulator.Frame(), args.Screenshot), "failed to save screenshot")
		log.ModEmu.InfoZ("screenshot saved").String("path", args.Screenshot).End()
	}
}
