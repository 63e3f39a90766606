package emu

import (
	"sync"

	"dmgo/hw"
	"dmgo/hw/input"
)

// Link is the frame rendezvous between the emulation core and the host.
//
// The core renders into the back buffer, then publishes it: buffers are
// swapped under the mutex, the host is signaled and the core blocks until
// the host posts the next input state. Closing the link, from either side,
// releases whoever is waiting.
type Link struct {
	mu    sync.Mutex
	bufs  [2][]byte
	front int

	ready chan struct{}
	input chan input.Buttons

	done      chan struct{}
	closeOnce sync.Once
}

func NewLink() *Link {
	return &Link{
		bufs: [2][]byte{
			make([]byte, hw.FrameSize),
			make([]byte, hw.FrameSize),
		},
		ready: make(chan struct{}),
		input: make(chan input.Buttons),
		done:  make(chan struct{}),
	}
}

// BackBuffer returns the buffer the core renders the next frame into. Only
// the core goroutine may call it.
func (l *Link) BackBuffer() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bufs[1-l.front]
}

// Publish makes the back buffer visible to the host and waits for the input
// state to use for the next frame. ok is false once the link is closed.
func (l *Link) Publish() (bs input.Buttons, ok bool) {
	l.mu.Lock()
	l.front = 1 - l.front
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	case <-l.done:
		return 0, false
	}

	select {
	case bs = <-l.input:
		return bs, true
	case <-l.done:
		return 0, false
	}
}

// Exchange waits for the next frame, copies it into dst and posts the input
// state bs. It returns false once the link is closed.
func (l *Link) Exchange(bs input.Buttons, dst []byte) bool {
	select {
	case <-l.ready:
	case <-l.done:
		return false
	}

	l.mu.Lock()
	copy(dst, l.bufs[l.front])
	l.mu.Unlock()

	select {
	case l.input <- bs:
		return true
	case <-l.done:
		return false
	}
}

// Close shuts the link down. It is safe to call it more than once.
func (l *Link) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
