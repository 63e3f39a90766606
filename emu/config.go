package emu

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"dmgo/emu/log"
	"dmgo/hw/input"
)

type Config struct {
	Input     input.Config    `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	Scale        int   `toml:"scale"`
	DisableVSync bool  `toml:"disable_vsync"`
	Monitor      int32 `toml:"monitor"`
}

type EmulationConfig struct {
	// Path to a 256 bytes boot program. When empty, emulation starts in
	// post-boot state.
	BootROM string `toml:"boot_rom"`

	// Log accesses to unmapped addresses.
	LogUnmapped bool `toml:"log_unmapped"`

	// Stop after that many frames, 0 means no limit.
	MaxFrames int64 `toml:"max_frames"`
}

func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{
			Scale: 4,
		},
		Emulation: EmulationConfig{
			LogUnmapped: true,
		},
	}
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("dmgo")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the dmgo config directory,
// or provide a default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return DefaultConfig()
	case err != nil:
		log.ModEmu.WarnZ("invalid config, using defaults").
			String("path", path).
			Error("err", err).
			End()
		return DefaultConfig()
	}
	return cfg
}

// LoadConfig decodes the configuration file at path. Missing values are
// taken from the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Video.Scale < 1 {
		cfg.Video.Scale = 1
	}
	return cfg, nil
}

// SaveConfig into dmgo config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(cfg, filepath.Join(ConfigDir(), cfgFilename))
}

func saveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
