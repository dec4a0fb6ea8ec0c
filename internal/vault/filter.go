// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"strings"

	"github.com/samber/lo"
)

// Filter selects entries by case-insensitive substring match on issuer and
// name. Empty fields match everything.
type Filter struct {
	Issuer string
	Name   string
}

// Matches reports whether e passes every non-empty field of the filter.
func (f Filter) Matches(e Entry) bool {
	if f.Issuer != "" && !strings.Contains(strings.ToLower(e.Issuer), strings.ToLower(f.Issuer)) {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Name)) {
		return false
	}
	return true
}

// Apply returns the entries that match, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return f.Matches(e)
	})
}
