package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"dmgo/emu/log"
)

// Provider samples the keyboard state and turns it into Buttons.
type Provider struct {
	keys     [ButtonCount]Key
	keystate []uint8
}

// NewProvider must be called once SDL is initialized.
func NewProvider(cfg Config) *Provider {
	var keystate []uint8
	sdl.Do(func() { keystate = sdl.GetKeyboardState() })
	p := &Provider{keys: cfg.Keys(), keystate: keystate}

	for b, k := range p.keys {
		log.ModInput.DebugZ("key mapping").
			Stringer("button", Button(b)).
			String("key", k.String()).
			End()
	}
	return p
}

// LoadState returns the current state of all buttons.
func (p *Provider) LoadState() Buttons {
	var bs Buttons
	for b, k := range p.keys {
		if int(k) < len(p.keystate) && p.keystate[k] != 0 {
			bs.Set(Button(b), true)
		}
	}
	// Opposite directions can't be pressed together on the real pad.
	if bs.Pressed(Left) && bs.Pressed(Right) {
		bs.Set(Left, false)
		bs.Set(Right, false)
	}
	if bs.Pressed(Up) && bs.Pressed(Down) {
		bs.Set(Up, false)
		bs.Set(Down, false)
	}
	return bs
}
