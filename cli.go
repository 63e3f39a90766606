package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"dmgo/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	romInfosMode             // Show ROM infos
	versionMode              // Show dmgo version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator." default:"withargs"`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show dmgo version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"${rompath_help}" required:"true" type:"existingfile"`

		BootROM    string   `name:"boot-rom" help:"${bootrom_help}" type:"existingfile"`
		Monitor    int32    `name:"monitor" help:"Monitor index to use." default:"0"`
		Scale      int      `name:"scale" help:"Window scale factor (overrides config)."`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
		Trace      *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		Headless   bool     `name:"headless" help:"Run without window nor input."`
		Frames     int64    `name:"frames" help:"Stop after N frames."`
		Screenshot string   `name:"screenshot" help:"${screenshot_help}" type:"path"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"rompath_help":    "Game Boy ROM image to run.",
	"bootrom_help":    "Boot ROM image (256 bytes). Start in post-boot state if not given.",
	"cpuprofile_help": "Write CPU profile to file.",
	"screenshot_help": "Save the last frame as PNG when emulation stops.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("dmgo"),
		kong.Description("Game Boy (DMG) emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "rom-infos </path/to/rom>":
		cfg.mode = romInfosMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	list, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected a list of log modules, got %v", tok.Value)
	}

	mask, mute, err := parseLogModules(list)
	if err != nil {
		return err
	}
	*lm = logModMask(mask)
	if mute {
		log.Disable()
		return nil
	}
	log.EnableDebugModules(mask)
	return nil
}

// parseLogModules parses a comma-separated list of log module names. "all"
// selects every module, "no" mutes logging and can't be mixed with others.
func parseLogModules(list string) (mask log.ModuleMask, mute bool, err error) {
	var all bool
	for _, name := range strings.Split(list, ",") {
		switch name = strings.TrimSpace(name); name {
		case "all":
			all = true
		case "no":
			mute = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}

	switch {
	case mute && (all || mask != 0):
		return 0, false, fmt.Errorf("'no' can't be combined with other log modules")
	case all:
		mask = log.ModuleMaskAll
	}
	return mask, mute, nil
}

// outfile is a trace destination: a file path, or one of stdout and stderr.
type outfile struct {
	io.Writer
	name string
	file *os.File
}

// Decode implements kong.MapperValue.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	name, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected a file name, got %v", tok.Value)
	}
	f.name = name

	switch f.name {
	case "stdout":
		f.Writer = os.Stdout
	case "stderr":
		f.Writer = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.Writer = bufio.NewWriterSize(fd, 1<<16)
		f.file = fd
	}
	return nil
}

func (f *outfile) String() string { return f.name }

// Close flushes and closes the trace file. Standard streams are left open.
func (f *outfile) Close() error {
	if f.file == nil {
		return nil
	}
	if bw, ok := f.Writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			f.file.Close()
			return err
		}
	}
	return f.file.Close()
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
