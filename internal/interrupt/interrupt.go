// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package interrupt restores the terminal when the process is interrupted.
//
// Install is called once at startup, before anything switches the terminal
// into raw mode or hides the cursor. On SIGINT or SIGTERM the handler puts
// the terminal back into the mode it had at install time, makes the cursor
// visible again, runs the registered hooks and exits with status 1.
package interrupt

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/toeirei/aegis-otp/internal/logging"
	"golang.org/x/term"
)

// ExitCode is the status the process exits with after an interrupt.
const ExitCode = 1

var (
	exit             = os.Exit
	input  *os.File  = os.Stdin
	output io.Writer = os.Stdout

	once   sync.Once
	active atomic.Pointer[guard]
)

type guard struct {
	sig     chan os.Signal
	fd      int
	state   *term.State
	out     *termenv.Output
	restore []func()
}

// Install sets up the process-wide interrupt handler. Only the first call
// has any effect.
func Install(restore ...func()) {
	once.Do(func() {
		g := &guard{
			sig:     make(chan os.Signal, 1),
			fd:      int(input.Fd()),
			out:     termenv.NewOutput(output),
			restore: restore,
		}
		if term.IsTerminal(g.fd) {
			state, err := term.GetState(g.fd)
			if err != nil {
				logging.Debugf("interrupt: capture terminal state: %v", err)
			}
			g.state = state
		}
		signal.Notify(g.sig, syscall.SIGINT, syscall.SIGTERM)
		active.Store(g)
		go g.wait()
	})
}

// Installed reports whether Install has run.
func Installed() bool { return active.Load() != nil }

// Raise delivers an interrupt as if the user had pressed Ctrl-C outside raw
// mode. Without an installed handler the signal goes to the process itself.
func Raise() {
	if g := active.Load(); g != nil {
		select {
		case g.sig <- os.Interrupt:
		default:
		}
		return
	}
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(os.Interrupt)
}

func (g *guard) wait() {
	sig := <-g.sig
	logging.Debugf("interrupt: received %v", sig)
	if g.state != nil {
		_ = term.Restore(g.fd, g.state)
	}
	g.out.ShowCursor()
	for _, fn := range g.restore {
		fn()
	}
	exit(ExitCode)
}
