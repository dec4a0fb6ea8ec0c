// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package console wraps the controlling terminal: cursor control, single-line
// redraws, raw mode and cancelable key reads.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Key is a decoded keypress.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyInterrupt
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "esc"
	case KeyInterrupt:
		return "ctrl+c"
	default:
		return "other"
	}
}

// KeyReader yields keypresses until cancelled or closed.
type KeyReader interface {
	ReadKey() (Key, error)
	// Cancel unblocks a pending ReadKey, which then fails with
	// cancelreader.ErrCanceled.
	Cancel() bool
	Close() error
}

// Terminal is what the countdown needs from the screen.
type Terminal interface {
	HideCursor() error
	ShowCursor() error
	// ClearLastLine erases the line above the cursor and leaves the cursor
	// at its start.
	ClearLastLine() error
	// WriteLine writes s followed by a line break that also works in raw mode.
	WriteLine(s string) error
	// EnterRaw switches the input to raw mode. The returned func restores
	// the previous mode and is safe to call more than once.
	EnterRaw() (restore func(), err error)
	Keys() (KeyReader, error)
}

// Console is the real Terminal over a tty pair.
type Console struct {
	in  *os.File
	w   *errWriter
	out *termenv.Output
}

var _ Terminal = (*Console)(nil)

// New returns a Console reading keys from in and drawing on out.
func New(in *os.File, out io.Writer) *Console {
	w := &errWriter{w: out}
	return &Console{
		in:  in,
		w:   w,
		out: termenv.NewOutput(w),
	}
}

// Stdio returns a Console over stdin and stdout.
func Stdio() *Console {
	return New(os.Stdin, os.Stdout)
}

// IsInteractive reports whether input comes from a terminal.
func (c *Console) IsInteractive() bool {
	return term.IsTerminal(int(c.in.Fd()))
}

func (c *Console) HideCursor() error {
	c.out.HideCursor()
	return c.w.Err()
}

func (c *Console) ShowCursor() error {
	c.out.ShowCursor()
	return c.w.Err()
}

func (c *Console) ClearLastLine() error {
	c.out.CursorPrevLine(1)
	c.out.ClearLine()
	return c.w.Err()
}

func (c *Console) WriteLine(s string) error {
	if _, err := fmt.Fprint(c.out, s, "\r\n"); err != nil {
		return err
	}
	return c.w.Err()
}

// EnterRaw is a no-op when input is not a terminal.
func (c *Console) EnterRaw() (func(), error) {
	fd := int(c.in.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	var once sync.Once
	return func() {
		once.Do(func() { _ = term.Restore(fd, state) })
	}, nil
}

func (c *Console) Keys() (KeyReader, error) {
	r, err := cancelreader.NewReader(c.in)
	if err != nil {
		return nil, fmt.Errorf("open key reader: %w", err)
	}
	return &keyReader{r: r}, nil
}

type keyReader struct {
	r   cancelreader.CancelReader
	buf [64]byte
}

func (k *keyReader) ReadKey() (Key, error) {
	n, err := k.r.Read(k.buf[:])
	if err != nil {
		return KeyOther, err
	}
	return Decode(k.buf[:n]), nil
}

func (k *keyReader) Cancel() bool { return k.r.Cancel() }

func (k *keyReader) Close() error { return k.r.Close() }

// Decode classifies one raw read. A lone ESC byte is the Escape key; escape
// sequences such as arrow keys arrive in a single read and are not.
func Decode(b []byte) Key {
	if len(b) == 1 && b[0] == 0x1b {
		return KeyEscape
	}
	for _, c := range b {
		if c == 0x03 {
			return KeyInterrupt
		}
	}
	return KeyOther
}

// errWriter remembers the first write error so termenv calls, which drop
// errors, can still be checked afterwards.
type errWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errWriter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
