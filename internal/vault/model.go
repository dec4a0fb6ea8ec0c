// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/toeirei/aegis-otp/internal/security"
)

// EntryType is the OTP flavour of an entry as stored by Aegis.
type EntryType string

const (
	TypeTOTP   EntryType = "totp"
	TypeHOTP   EntryType = "hotp"
	TypeSteam  EntryType = "steam"
	TypeMOTP   EntryType = "motp"
	TypeYandex EntryType = "yandex"
)

// Info holds the OTP parameters of an entry.
type Info struct {
	Secret security.Secret `json:"secret"`
	Algo   string          `json:"algo"`
	Digits int             `json:"digits"`
	Period int             `json:"period"`
}

// Entry is one vault entry. Entries are treated as immutable once loaded.
type Entry struct {
	Type     EntryType `json:"type"`
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	Issuer   string    `json:"issuer"`
	Note     string    `json:"note"`
	Favorite bool      `json:"favorite"`
	Groups   []string  `json:"groups"`
	Info     Info      `json:"info"`
}

// Label is the text shown for the entry in pickers: "issuer (name)", both
// trimmed of surrounding whitespace.
func (e Entry) Label() string {
	return strings.TrimSpace(e.Issuer) + " (" + strings.TrimSpace(e.Name) + ")"
}

// Database is the decrypted content of a vault.
type Database struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// TOTP returns the TOTP entries of the database in vault order.
func (d *Database) TOTP() []Entry {
	return lo.Filter(d.Entries, func(e Entry, _ int) bool {
		return e.Type == TypeTOTP
	})
}
