// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/toeirei/aegis-otp/internal/security"
	"golang.org/x/term"
)

// ErrPasswordConflict is returned when both a password and a password file
// are configured.
var ErrPasswordConflict = errors.New("vault: password and password file are mutually exclusive")

// PasswordInput resolves the vault password from, in order: an explicit
// password, a password file (trimmed), or an interactive prompt.
type PasswordInput struct {
	Password string
	File     string
	// Title is the prompt shown when asking interactively.
	Title string
	// Prompt asks the user for the password. Nil means PromptPassword.
	Prompt func(title string) (string, error)
}

// GetPassword implements PasswordGetter.
func (p PasswordInput) GetPassword() (security.Secret, error) {
	switch {
	case p.Password != "" && p.File != "":
		return nil, ErrPasswordConflict
	case p.Password != "":
		return security.FromString(p.Password), nil
	case p.File != "":
		data, err := os.ReadFile(p.File)
		if err != nil {
			return nil, fmt.Errorf("read password file: %w", err)
		}
		defer wipe(data)
		return security.FromString(strings.TrimSpace(string(data))), nil
	}

	prompt := p.Prompt
	if prompt == nil {
		prompt = PromptPassword
	}
	pw, err := prompt(p.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to get password: %w", err)
	}
	return security.FromString(pw), nil
}

// PromptPassword asks for a password on the terminal with echo disabled.
// The form is drawn on stderr so stdout stays clean for exports.
func PromptPassword(title string) (string, error) {
	var pw string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&pw),
		),
	).WithOutput(os.Stderr)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return "", err
	}
	return pw, nil
}
