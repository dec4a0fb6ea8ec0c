// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/toeirei/aegis-otp/internal/logging"
	"github.com/toeirei/aegis-otp/internal/vault"
)

// Viewer shows one entry until the user leaves it.
type Viewer interface {
	Run(ctx context.Context, entry vault.Entry) error
}

// Recorder remembers which entries were viewed.
type Recorder interface {
	Record(ctx context.Context, entry vault.Entry) error
}

// Selector alternates between picking an entry and viewing its code until
// the user quits.
type Selector struct {
	Viewer  Viewer
	Picker  Picker
	History Recorder
	Stderr  io.Writer
}

// Labels returns the picker label of every entry, in order.
func Labels(entries []vault.Entry) []string {
	return lo.Map(entries, func(e vault.Entry, _ int) string { return e.Label() })
}

// Run drives the pick/view loop and returns the process exit status: 0 when
// the user quits, 1 on any failure.
func (s *Selector) Run(ctx context.Context, entries []vault.Entry) int {
	labels := Labels(entries)
	for {
		sel, err := s.Picker.Pick(ctx, labels)
		if err != nil {
			return s.fail(err)
		}
		if sel.Cancelled {
			return 0
		}
		if sel.Index < 0 || sel.Index >= len(entries) {
			return s.fail(fmt.Errorf("picker returned index %d out of range", sel.Index))
		}

		entry := entries[sel.Index]
		if err := s.Viewer.Run(ctx, entry); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return 0
			}
			return s.fail(err)
		}
		if s.History != nil {
			if err := s.History.Record(ctx, entry); err != nil {
				logging.Warnf("could not record view of %s: %v", entry.Label(), err)
			}
		}
	}
}

func (s *Selector) fail(err error) int {
	w := s.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, errorStyle.Render(err.Error()))
	return 1
}
