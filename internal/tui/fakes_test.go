// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/toeirei/aegis-otp/internal/vault"
)

// scriptedSource replays a fixed sequence of remaining-seconds values. Once
// the script runs out it calls exhausted (once) and keeps repeating the last
// value. Codes are numbered by generation.
type scriptedSource struct {
	mu        sync.Mutex
	remaining []int
	pos       int
	gens      []int // poll index of every generation
	remErr    error
	genErr    error
	exhausted func()
}

func (s *scriptedSource) RemainingSeconds(vault.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remErr != nil {
		return 0, s.remErr
	}
	if s.pos >= len(s.remaining) {
		if s.exhausted != nil {
			s.exhausted()
			s.exhausted = nil
		}
		s.pos++
		return s.remaining[len(s.remaining)-1], nil
	}
	v := s.remaining[s.pos]
	s.pos++
	return v, nil
}

func (s *scriptedSource) GenerateCode(vault.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genErr != nil {
		return "", s.genErr
	}
	s.gens = append(s.gens, s.pos-1)
	return fmt.Sprintf("%06d", len(s.gens)), nil
}

func (s *scriptedSource) generations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.gens...)
}

type recordingClipboard struct {
	mu        sync.Mutex
	available bool
	err       error
	writes    []string
}

func (c *recordingClipboard) Available() bool { return c.available }

func (c *recordingClipboard) WriteText(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, s)
	return c.err
}

func (c *recordingClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

type fakePicker struct {
	results []Selection
	errs    []error
	calls   [][]string
}

func (p *fakePicker) Pick(_ context.Context, labels []string) (Selection, error) {
	i := len(p.calls)
	p.calls = append(p.calls, labels)
	if i < len(p.errs) && p.errs[i] != nil {
		return Selection{}, p.errs[i]
	}
	if i >= len(p.results) {
		return Selection{Cancelled: true}, nil
	}
	return p.results[i], nil
}

type fakeViewer struct {
	errs   []error
	viewed []vault.Entry
}

func (v *fakeViewer) Run(_ context.Context, e vault.Entry) error {
	i := len(v.viewed)
	v.viewed = append(v.viewed, e)
	if i < len(v.errs) {
		return v.errs[i]
	}
	return nil
}

type fakeRecorder struct {
	err      error
	recorded []vault.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e vault.Entry) error {
	r.recorded = append(r.recorded, e)
	return r.err
}
