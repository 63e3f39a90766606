package hw

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"dmgo/emu/log"
)

type OutputConfig struct {
	Title        string
	ScaleFactor  int
	Monitor      int32
	DisableVSync bool
}

// Output shows frames in a window and pumps SDL events.
type Output struct {
	wnd *window
	cfg OutputConfig

	framecounter int
}

func NewOutput(cfg OutputConfig) (*Output, error) {
	wnd, err := newWindow(windowConfig{
		title:        cfg.Title,
		scale:        cfg.ScaleFactor,
		monitor:      cfg.Monitor,
		disableVSync: cfg.DisableVSync,
	})
	if err != nil {
		return nil, err
	}
	return &Output{wnd: wnd, cfg: cfg}, nil
}

// Poll processes pending window events. It returns false once the user asked
// to quit.
func (o *Output) Poll() bool {
	running := true
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if event.Type == sdl.KEYDOWN && event.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					running = false
				}
			}
		}
	})
	return running
}

// Present shows frame, a FrameSize RGB buffer.
func (o *Output) Present(frame []byte) {
	o.framecounter++
	sdl.Do(func() { o.wnd.render(frame) })
}

func (o *Output) Close() error {
	log.ModEmu.InfoZ("closing output").Int("frames", o.framecounter).End()
	return o.wnd.Close()
}

// FrameImage converts a FrameSize RGB buffer into an image.
func FrameImage(frame []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for i := range Width * Height {
		copy(img.Pix[i*4:], frame[i*3:i*3+3])
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

// SaveAsPNG writes a FrameSize RGB buffer as a PNG file.
func SaveAsPNG(frame []byte, path string) error {
	if len(frame) != FrameSize {
		return fmt.Errorf("invalid frame size %d", len(frame))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, FrameImage(frame)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
