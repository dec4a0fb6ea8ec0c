// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export writes vault entries in non-interactive formats: current
// codes, plain Aegis JSON and otpauth:// URLs.
package export

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/toeirei/aegis-otp/internal/i18n"
	"github.com/toeirei/aegis-otp/internal/otp"
	"github.com/toeirei/aegis-otp/internal/vault"
)

// Codes prints the current code of every entry followed by the seconds the
// last one stays valid.
func Codes(w io.Writer, entries []vault.Entry, src otp.Source) error {
	remaining := 0
	for _, e := range entries {
		code, err := src.GenerateCode(e)
		if err != nil {
			return err
		}
		if remaining, err = src.RemainingSeconds(e); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s  %s:%s\n", code, e.Issuer, e.Name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, i18n.T("cli.remaining", remaining))
	return err
}

// plainEntry is an entry of an unencrypted Aegis export. Metadata that is
// not carried over is written as null.
type plainEntry struct {
	Type     string    `json:"type"`
	UUID     *string   `json:"uuid"`
	Name     string    `json:"name"`
	Issuer   string    `json:"issuer"`
	Note     *string   `json:"note"`
	Icon     *string   `json:"icon"`
	IconMime *string   `json:"icon_mime"`
	IconHash *string   `json:"icon_hash"`
	Favorite bool      `json:"favorite"`
	Info     plainInfo `json:"info"`
	Groups   []string  `json:"groups"`
}

type plainInfo struct {
	Secret string `json:"secret"`
	Algo   string `json:"algo"`
	Digits int    `json:"digits"`
	Period int    `json:"period"`
}

// JSON prints entries as a pretty-printed plain Aegis entry array, secrets
// included.
func JSON(w io.Writer, entries []vault.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, i18n.T("cli.no_entries_found"))
		return err
	}
	out := lo.Map(entries, func(e vault.Entry, _ int) plainEntry {
		return plainEntry{
			Type:   string(vault.TypeTOTP),
			Name:   e.Name,
			Issuer: e.Issuer,
			Info: plainInfo{
				Secret: e.Info.Secret.Reveal(),
				Algo:   strings.ToUpper(e.Info.Algo),
				Digits: e.Info.Digits,
				Period: e.Info.Period,
			},
		}
	})
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// URL returns the otpauth:// URI of a TOTP entry.
func URL(e vault.Entry) string {
	return fmt.Sprintf("otpauth://totp/%s?secret=%s&algorithm=%s&digits=%d&period=%d&issuer=%s",
		encode(e.Name),
		strings.ReplaceAll(e.Info.Secret.Reveal(), `"`, ""),
		strings.ToUpper(e.Info.Algo),
		e.Info.Digits,
		e.Info.Period,
		encode(e.Issuer),
	)
}

// URLs prints one otpauth:// URI per entry.
func URLs(w io.Writer, entries []vault.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, URL(e)); err != nil {
			return err
		}
	}
	return nil
}

// encode percent-encodes everything but unreserved characters, with spaces
// as %20.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
