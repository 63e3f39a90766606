package emu

import (
	"sync"
	"testing"

	"dmgo/gbrom"
)

// testROM returns a 32KiB image without mapper, holding prog at 0x0100.
func testROM(tb testing.TB, prog ...uint8) *gbrom.Rom {
	tb.Helper()

	buf := make([]byte, 0x8000)
	copy(buf[0x100:], prog)
	copy(buf[0x134:], "EMUTEST")
	rom, err := gbrom.Decode(buf)
	if err != nil {
		tb.Fatal(err)
	}
	return rom
}

// testingOutput records presented frames and asks to quit after max of them.
type testingOutput struct {
	mu     sync.Mutex
	max    int
	frames [][]byte
	polls  int
	closed bool
}

func (o *testingOutput) Poll() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.polls++
	return len(o.frames) < o.max
}

func (o *testingOutput) Present(frame []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frames = append(o.frames, append([]byte(nil), frame...))
}

func (o *testingOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}
