// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/toeirei/aegis-otp/internal/vault"
)

var testEntries = []vault.Entry{
	{Type: vault.TypeTOTP, Issuer: "Google", Name: "me@x.com"},
	{Type: vault.TypeTOTP, Issuer: "GitHub", Name: "dev"},
}

func TestLabels(t *testing.T) {
	got := Labels(testEntries)
	if len(got) != 2 || got[0] != "Google (me@x.com)" || got[1] != "GitHub (dev)" {
		t.Fatalf("unexpected labels %q", got)
	}
}

func TestLabels_TrimsWhitespace(t *testing.T) {
	got := Labels([]vault.Entry{{Issuer: " GitHub\t", Name: "  dev "}})
	if got[0] != "GitHub (dev)" {
		t.Fatalf("unexpected label %q", got[0])
	}
}

func TestSelector_ViewThenQuit(t *testing.T) {
	picker := &fakePicker{results: []Selection{{Index: 1}, {Index: 0}, {Cancelled: true}}}
	viewer := &fakeViewer{}
	history := &fakeRecorder{}
	s := &Selector{Viewer: viewer, Picker: picker, History: history, Stderr: &bytes.Buffer{}}

	if code := s.Run(context.Background(), testEntries); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(viewer.viewed) != 2 || viewer.viewed[0].Issuer != "GitHub" || viewer.viewed[1].Issuer != "Google" {
		t.Fatalf("unexpected views %+v", viewer.viewed)
	}
	if len(history.recorded) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history.recorded))
	}
	if len(picker.calls) != 3 {
		t.Fatalf("expected picker to be shown 3 times, got %d", len(picker.calls))
	}
	for _, labels := range picker.calls {
		if labels[0] != "Google (me@x.com)" || labels[1] != "GitHub (dev)" {
			t.Fatalf("unexpected picker labels %q", labels)
		}
	}
}

func TestSelector_CancelImmediately(t *testing.T) {
	viewer := &fakeViewer{}
	s := &Selector{Viewer: viewer, Picker: &fakePicker{results: []Selection{{Cancelled: true}}}}
	if code := s.Run(context.Background(), testEntries); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(viewer.viewed) != 0 {
		t.Fatalf("nothing should have been viewed")
	}
}

func TestSelector_Failures(t *testing.T) {
	cases := []struct {
		name   string
		picker *fakePicker
		viewer *fakeViewer
		want   string
	}{
		{
			name:   "picker error",
			picker: &fakePicker{errs: []error{ErrInterrupted}},
			viewer: &fakeViewer{},
			want:   "interrupted",
		},
		{
			name:   "viewer error",
			picker: &fakePicker{results: []Selection{{Index: 0}}},
			viewer: &fakeViewer{errs: []error{errors.New("bad secret")}},
			want:   "bad secret",
		},
		{
			name:   "index out of range",
			picker: &fakePicker{results: []Selection{{Index: 7}}},
			viewer: &fakeViewer{},
			want:   "out of range",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			s := &Selector{Viewer: tc.viewer, Picker: tc.picker, Stderr: &stderr}
			if code := s.Run(context.Background(), testEntries); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tc.want) {
				t.Fatalf("stderr %q missing %q", stderr.String(), tc.want)
			}
		})
	}
}

func TestSelector_HistoryFailureIsIgnored(t *testing.T) {
	picker := &fakePicker{results: []Selection{{Index: 0}, {Index: 1}}}
	viewer := &fakeViewer{}
	history := &fakeRecorder{err: fmt.Errorf("database is locked")}
	s := &Selector{Viewer: viewer, Picker: picker, History: history, Stderr: &bytes.Buffer{}}

	if code := s.Run(context.Background(), testEntries); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(viewer.viewed) != 2 {
		t.Fatalf("expected loop to continue after history failure")
	}
}

func TestSelector_ContextCancelledWhileViewing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Selector{
		Viewer: &fakeViewer{errs: []error{context.Canceled}},
		Picker: &fakePicker{results: []Selection{{Index: 0}}},
	}
	if code := s.Run(ctx, testEntries); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}
