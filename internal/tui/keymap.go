// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/aegis-otp/internal/i18n"
)

// pickerKeys are handled by the picker before the list sees them.
type pickerKeys struct {
	Choose    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	Interrupt key.Binding
}

func newPickerKeys() pickerKeys {
	return pickerKeys{
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("picker.choose")),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", i18n.T("picker.quit")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", i18n.T("picker.quit")),
		),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Cancel}
}
