// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package clipboard copies codes to the system clipboard when one exists.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned by Unsupported.WriteText.
var ErrUnavailable = errors.New("clipboard: not available")

// Clipboard is a text-only system clipboard.
type Clipboard interface {
	Available() bool
	WriteText(text string) error
}

// System is the OS clipboard via xclip/xsel/wl-copy, pbcopy or the Windows API.
type System struct{}

// Available reports whether a clipboard backend was found at startup.
func (System) Available() bool { return !clipboard.Unsupported }

func (System) WriteText(text string) error { return clipboard.WriteAll(text) }

// Unsupported is a clipboard that never accepts writes, used when copying is
// disabled by configuration.
type Unsupported struct{}

func (Unsupported) Available() bool { return false }

func (Unsupported) WriteText(string) error { return ErrUnavailable }

// Default returns System when enabled, Unsupported otherwise.
func Default(enabled bool) Clipboard {
	if !enabled {
		return Unsupported{}
	}
	return System{}
}
