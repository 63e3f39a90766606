package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// A Key is a keyboard key, serialized by its SDL scancode name.
type Key sdl.Scancode

func (k Key) String() string {
	return sdl.GetScancodeName(sdl.Scancode(k))
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*k = Key(sdl.SCANCODE_UNKNOWN)
		return nil
	}
	sc := sdl.GetScancodeFromName(s)
	if sc == sdl.SCANCODE_UNKNOWN {
		return fmt.Errorf("unrecognized key %q", s)
	}
	*k = Key(sc)
	return nil
}

// Config maps each button to a keyboard key.
type Config struct {
	A      Key `toml:"a"`
	B      Key `toml:"b"`
	Select Key `toml:"select"`
	Start  Key `toml:"start"`
	Right  Key `toml:"right"`
	Left   Key `toml:"left"`
	Up     Key `toml:"up"`
	Down   Key `toml:"down"`
}

func DefaultConfig() Config {
	return Config{
		A:      Key(sdl.SCANCODE_X),
		B:      Key(sdl.SCANCODE_Z),
		Select: Key(sdl.SCANCODE_BACKSPACE),
		Start:  Key(sdl.SCANCODE_RETURN),
		Right:  Key(sdl.SCANCODE_RIGHT),
		Left:   Key(sdl.SCANCODE_LEFT),
		Up:     Key(sdl.SCANCODE_UP),
		Down:   Key(sdl.SCANCODE_DOWN),
	}
}

// Keys returns the key mapped to each button, indexed by Button.
func (cfg Config) Keys() [ButtonCount]Key {
	return [ButtonCount]Key{
		A:      cfg.A,
		B:      cfg.B,
		Select: cfg.Select,
		Start:  cfg.Start,
		Right:  cfg.Right,
		Left:   cfg.Left,
		Up:     cfg.Up,
		Down:   cfg.Down,
	}
}
