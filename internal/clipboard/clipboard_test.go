// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package clipboard

import (
	"errors"
	"testing"
)

func TestDefault_Disabled(t *testing.T) {
	c := Default(false)
	if c.Available() {
		t.Fatalf("disabled clipboard must not be available")
	}
	if err := c.WriteText("123456"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDefault_Enabled(t *testing.T) {
	if _, ok := Default(true).(System); !ok {
		t.Fatalf("expected System clipboard when enabled")
	}
}
