// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package console

import (
	"sync"

	"github.com/muesli/cancelreader"
)

// Fake is an in-memory Terminal for tests. Keys sent on the channel returned
// by Press are delivered to the current KeyReader.
type Fake struct {
	mu       sync.Mutex
	hidden   bool
	raw      bool
	screen   []string
	lines    []string
	writeErr error
	keys     chan Key
	readers  int
}

var _ Terminal = (*Fake)(nil)

// NewFake returns a Fake with a visible cursor.
func NewFake() *Fake {
	return &Fake{keys: make(chan Key, 16)}
}

// FailWrites makes every later WriteLine return err.
func (f *Fake) FailWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

// Press queues a keypress.
func (f *Fake) Press(k Key) { f.keys <- k }

func (f *Fake) CursorHidden() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hidden
}

func (f *Fake) Raw() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw
}

// Screen returns the lines currently visible.
func (f *Fake) Screen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.screen...)
}

// Lines returns every line ever written, in order.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

// Readers returns how many key readers were opened.
func (f *Fake) Readers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readers
}

func (f *Fake) HideCursor() error {
	f.mu.Lock()
	f.hidden = true
	f.mu.Unlock()
	return nil
}

func (f *Fake) ShowCursor() error {
	f.mu.Lock()
	f.hidden = false
	f.mu.Unlock()
	return nil
}

func (f *Fake) ClearLastLine() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.screen); n > 0 {
		f.screen = f.screen[:n-1]
	}
	return nil
}

func (f *Fake) WriteLine(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.screen = append(f.screen, s)
	f.lines = append(f.lines, s)
	return nil
}

func (f *Fake) EnterRaw() (func(), error) {
	f.mu.Lock()
	f.raw = true
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.raw = false
		f.mu.Unlock()
	}, nil
}

func (f *Fake) Keys() (KeyReader, error) {
	f.mu.Lock()
	f.readers++
	f.mu.Unlock()
	return &fakeReader{keys: f.keys, done: make(chan struct{})}, nil
}

type fakeReader struct {
	keys <-chan Key
	once sync.Once
	done chan struct{}
}

func (r *fakeReader) ReadKey() (Key, error) {
	select {
	case <-r.done:
		return KeyOther, cancelreader.ErrCanceled
	default:
	}
	select {
	case k := <-r.keys:
		return k, nil
	case <-r.done:
		return KeyOther, cancelreader.ErrCanceled
	}
}

func (r *fakeReader) Cancel() bool {
	r.once.Do(func() { close(r.done) })
	return true
}

func (r *fakeReader) Close() error {
	r.Cancel()
	return nil
}
