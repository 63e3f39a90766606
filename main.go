package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"dmgo/gbrom"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case versionMode:
		printVersion()
	case runMode:
		runMain(cli.Run)
	}
}

func romInfosMain(args RomInfos) {
	rom, err := gbrom.Open(args.RomPath)
	checkf(err, "failed to open rom")
	rom.PrintInfos(os.Stdout)
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("dmgo", version)
}
