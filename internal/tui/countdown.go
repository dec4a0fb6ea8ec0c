// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui holds the interactive parts of aegis-otp: the entry picker and
// the live countdown shown for the chosen entry.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/toeirei/aegis-otp/internal/clipboard"
	"github.com/toeirei/aegis-otp/internal/console"
	"github.com/toeirei/aegis-otp/internal/i18n"
	"github.com/toeirei/aegis-otp/internal/interrupt"
	"github.com/toeirei/aegis-otp/internal/logging"
	"github.com/toeirei/aegis-otp/internal/otp"
	"github.com/toeirei/aegis-otp/internal/vault"
)

// DefaultTick is how often the countdown polls and redraws.
const DefaultTick = 60 * time.Millisecond

// Urgency is how close the current code is to expiring.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyUrgent
)

func (u Urgency) String() string {
	switch u {
	case UrgencyUrgent:
		return "urgent"
	case UrgencyWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Band classifies the seconds left: 0-5 urgent, 6-15 warning, above normal.
func Band(remaining int) Urgency {
	switch {
	case remaining <= 5:
		return UrgencyUrgent
	case remaining <= 15:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// RenderLine formats one countdown line in the colour of its band.
func RenderLine(code string, remaining int) string {
	return styleFor(Band(remaining)).Render(i18n.T("countdown.line", code, remaining))
}

// Countdown shows a live, self-refreshing code for one entry until the user
// presses Esc.
type Countdown struct {
	Term      console.Terminal
	Source    otp.Source
	Clipboard clipboard.Clipboard
	Tick      time.Duration
	// Interrupt is called when Ctrl-C is read while the terminal is raw.
	// Nil means interrupt.Raise.
	Interrupt func()
}

// Run blocks until the session ends. It returns nil when the user exits,
// ctx.Err() when ctx is cancelled and the first OTP or terminal error
// otherwise. The cursor and terminal mode are restored on every path.
func (c *Countdown) Run(ctx context.Context, entry vault.Entry) (err error) {
	tick := c.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	if err := c.Term.HideCursor(); err != nil {
		return fmt.Errorf("hide cursor: %w", err)
	}
	defer func() {
		if serr := c.Term.ShowCursor(); serr != nil && err == nil {
			err = fmt.Errorf("show cursor: %w", serr)
		}
	}()

	restore, err := c.Term.EnterRaw()
	if err != nil {
		return err
	}
	defer restore()

	keys, err := c.Term.Keys()
	if err != nil {
		return err
	}
	// Unblocks the listener so it cannot read keys meant for the picker.
	defer keys.Cancel()
	exitKey := listen(keys, c.interrupt())

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var (
		code          string
		lastRemaining int
		drawn         bool
	)
	for {
		select {
		case <-exitKey:
			return c.clear(drawn)
		case <-ctx.Done():
			if err := c.clear(drawn); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}

		remaining, err := c.Source.RemainingSeconds(entry)
		if err != nil {
			return fmt.Errorf("remaining seconds: %w", err)
		}
		if remaining > lastRemaining {
			code, err = c.Source.GenerateCode(entry)
			if err != nil {
				return fmt.Errorf("generate code: %w", err)
			}
			c.copy(code)
		}

		if err := c.clear(drawn); err != nil {
			return err
		}
		if err := c.Term.WriteLine(RenderLine(code, remaining)); err != nil {
			return fmt.Errorf("draw countdown: %w", err)
		}
		drawn = true

		select {
		case <-exitKey:
			return c.clear(drawn)
		case <-ctx.Done():
			if err := c.clear(drawn); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
		}
		lastRemaining = remaining
	}
}

func (c *Countdown) clear(drawn bool) error {
	if !drawn {
		return nil
	}
	if err := c.Term.ClearLastLine(); err != nil {
		return fmt.Errorf("clear countdown: %w", err)
	}
	return nil
}

func (c *Countdown) copy(code string) {
	if c.Clipboard == nil || !c.Clipboard.Available() {
		return
	}
	if err := c.Clipboard.WriteText(code); err != nil {
		logging.Debugf("copy code to clipboard: %v", err)
	}
}

func (c *Countdown) interrupt() func() {
	if c.Interrupt != nil {
		return c.Interrupt
	}
	return interrupt.Raise
}
