// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var pickerLabels = []string{"Google (me@x.com)", "GitHub (dev)", "GitLab (ops)"}

func press(m pickerModel, msgs ...tea.Msg) (pickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(pickerModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// awaitMsg runs cmd, expanding batches, until it yields a message of type T.
func awaitMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	msgs := make(chan tea.Msg, 32)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					run(bc)
				}
				return
			}
			select {
			case msgs <- msg:
			default:
			}
		}()
	}
	run(cmd)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if v, ok := msg.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("no %T produced", zero)
			return zero
		}
	}
}

func TestPicker_EnterChoosesFirst(t *testing.T) {
	m, cmd := press(newPickerModel("", pickerLabels), tea.KeyMsg{Type: tea.KeyEnter})
	sel, err := m.result()
	if err != nil || sel.Cancelled || sel.Index != 0 {
		t.Fatalf("expected index 0, got %+v %v", sel, err)
	}
	if cmd == nil || !m.quitting {
		t.Fatalf("expected picker to quit")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quitting, got %q", m.View())
	}
}

func TestPicker_NavigateAndChoose(t *testing.T) {
	m, _ := press(newPickerModel("", pickerLabels), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	sel, err := m.result()
	if err != nil || sel.Index != 1 {
		t.Fatalf("expected index 1, got %+v %v", sel, err)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}, runes("q")} {
		m, _ := press(newPickerModel("", pickerLabels), msg)
		sel, err := m.result()
		if err != nil || !sel.Cancelled {
			t.Fatalf("%v: expected cancel, got %+v %v", msg, sel, err)
		}
	}
}

func TestPicker_CtrlCIsAnError(t *testing.T) {
	m, _ := press(newPickerModel("", pickerLabels), tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, err := m.result(); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
}

func TestPicker_FilteringModeKeys(t *testing.T) {
	t.Run("q is typed into the filter", func(t *testing.T) {
		m, _ := press(newPickerModel("", pickerLabels), runes("/"), runes("q"))
		if m.quitting {
			t.Fatalf("q must not quit while filtering")
		}
		if m.list.FilterState() != list.Filtering || m.list.FilterValue() != "q" {
			t.Fatalf("expected filter %q, got state %v value %q", "q", m.list.FilterState(), m.list.FilterValue())
		}
	})

	t.Run("esc on empty filter cancels", func(t *testing.T) {
		m, _ := press(newPickerModel("", pickerLabels), runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
		if sel, _ := m.result(); !sel.Cancelled || !m.quitting {
			t.Fatalf("expected cancel, got %+v", sel)
		}
	})

	t.Run("esc clears a typed filter", func(t *testing.T) {
		m, _ := press(newPickerModel("", pickerLabels), runes("/"), runes("git"), tea.KeyMsg{Type: tea.KeyEsc})
		if m.quitting {
			t.Fatalf("esc with a filter should clear it, not quit")
		}
		if m.list.FilterState() != list.Unfiltered {
			t.Fatalf("expected filter to be cleared, got %v", m.list.FilterState())
		}
	})

	t.Run("enter picks while filtering", func(t *testing.T) {
		m, _ := press(newPickerModel("", pickerLabels), runes("/"), tea.KeyMsg{Type: tea.KeyEnter})
		if sel, err := m.result(); err != nil || sel.Index != 0 {
			t.Fatalf("expected index 0, got %+v %v", sel, err)
		}
	})
}

func TestPicker_FuzzyFilter(t *testing.T) {
	m, cmd := press(newPickerModel("", pickerLabels), runes("/"), runes("hub"))
	matches := awaitMsg[list.FilterMatchesMsg](t, cmd)
	m, _ = press(m, matches, tea.KeyMsg{Type: tea.KeyEnter})

	sel, err := m.result()
	if err != nil || sel.Index != 1 {
		t.Fatalf("expected GitHub (index 1), got %+v %v", sel, err)
	}
}

func TestPicker_InitOpensFilter(t *testing.T) {
	m := newPickerModel("", pickerLabels)
	msg := m.Init()()
	m, _ = press(m, msg)
	if m.list.FilterState() != list.Filtering {
		t.Fatalf("expected picker to start filtering, got %v", m.list.FilterState())
	}
}
