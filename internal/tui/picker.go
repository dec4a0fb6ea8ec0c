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

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/aegis-otp/internal/i18n"
)

// ErrInterrupted is returned by the picker when the user presses Ctrl-C.
var ErrInterrupted = errors.New("picker: interrupted")

const (
	pickerWidth  = 80
	pickerHeight = 14
)

// Selection is the outcome of one pick.
type Selection struct {
	Index     int
	Cancelled bool
}

// Picker lets the user choose one of labels.
type Picker interface {
	Pick(ctx context.Context, labels []string) (Selection, error)
}

// ListPicker is a fuzzy-filtered Bubble Tea list. Typing filters right away;
// Enter picks the highlighted entry.
type ListPicker struct {
	Title  string
	Input  io.Reader
	Output io.Writer
}

// Pick runs a fresh program each time so no filter state carries over.
func (p ListPicker) Pick(ctx context.Context, labels []string) (Selection, error) {
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}

	final, err := tea.NewProgram(newPickerModel(p.Title, labels), opts...).Run()
	if err != nil {
		return Selection{}, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok {
		return Selection{}, fmt.Errorf("picker: unexpected model %T", final)
	}
	return m.result()
}

type item struct {
	label string
	index int
}

func (i item) Title() string       { return i.label }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return i.label }

type pickerModel struct {
	list      list.Model
	keys      pickerKeys
	choice    int
	cancelled bool
	err       error
	quitting  bool
}

func newPickerModel(title string, labels []string) pickerModel {
	items := make([]list.Item, len(labels))
	for i, l := range labels {
		items[i] = item{label: l, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(selectedItemStyle.GetForeground()).BorderForeground(colorHighlight)

	keys := newPickerKeys()
	l := list.New(items, delegate, pickerWidth, pickerHeight)
	if title == "" {
		title = i18n.T("picker.title")
	}
	l.Title = title
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("entry", "entries")
	l.AdditionalShortHelpKeys = keys.ShortHelp

	return pickerModel{list: l, keys: keys, choice: -1}
}

// Init opens the filter prompt so typing narrows the list immediately.
func (m pickerModel) Init() tea.Cmd {
	return func() tea.Msg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}
	}
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, min(msg.Height, pickerHeight))
		return m, nil

	case tea.KeyMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch {
		case key.Matches(msg, m.keys.Interrupt):
			m.err = ErrInterrupted
			return m.quit()

		case key.Matches(msg, m.keys.Choose):
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = it.index
				return m.quit()
			}
			if !filtering {
				return m, nil
			}

		case key.Matches(msg, m.keys.Cancel):
			if m.list.FilterState() == list.Unfiltered || (filtering && m.list.FilterValue() == "") {
				m.cancelled = true
				return m.quit()
			}

		case key.Matches(msg, m.keys.Quit) && !filtering:
			m.cancelled = true
			return m.quit()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders nothing once a choice is made so the list disappears.
func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.list.Items()) == 0 {
		return errorStyle.Render(i18n.T("picker.no_items")) + "\n"
	}
	return m.list.View()
}

func (m pickerModel) result() (Selection, error) {
	switch {
	case m.err != nil:
		return Selection{}, m.err
	case m.cancelled || m.choice < 0:
		return Selection{Cancelled: true}, nil
	default:
		return Selection{Index: m.choice}, nil
	}
}
