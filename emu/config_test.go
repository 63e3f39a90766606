package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"

	"dmgo/hw/input"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
[input]
a = "Space"

[video]
scale = 0
disable_vsync = true

[emulation]
max_frames = 600
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Input.A = input.Key(sdl.SCANCODE_SPACE)
	want.Video.Scale = 1
	want.Video.DisableVSync = true
	want.Emulation.MaxFrames = 600
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v, want not exist", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[input]\na = \"NoSuchKey\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("unknown key name should be rejected")
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Start = input.Key(sdl.SCANCODE_S)
	cfg.Video.Monitor = 1
	cfg.Emulation.BootROM = "/tmp/dmg_boot.bin"

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := saveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch after save (-want +got):\n%s", diff)
	}
}
