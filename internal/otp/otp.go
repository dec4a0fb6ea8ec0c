// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package otp computes time-based one-time passwords for vault entries.
package otp

import (
	"errors"
	"fmt"
	"strings"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/toeirei/aegis-otp/internal/clock"
	"github.com/toeirei/aegis-otp/internal/vault"
)

var (
	// ErrUnsupportedAlgorithm is returned for hash algorithms other than SHA1/256/512.
	ErrUnsupportedAlgorithm = errors.New("otp: unsupported algorithm")
	// ErrInvalidPeriod is returned when an entry's period is not positive.
	ErrInvalidPeriod = errors.New("otp: period must be positive")
	// ErrUnsupportedType is returned for non-TOTP entries.
	ErrUnsupportedType = errors.New("otp: unsupported entry type")
)

// Source produces codes and the time left until they roll over.
type Source interface {
	GenerateCode(entry vault.Entry) (string, error)
	RemainingSeconds(entry vault.Entry) (int, error)
}

// TOTP implements Source using RFC 6238.
type TOTP struct {
	clock clock.Clocker
}

// NewTOTP returns a TOTP source reading time from c. A nil clock means the
// system clock.
func NewTOTP(c clock.Clocker) *TOTP {
	if c == nil {
		c = clock.New()
	}
	return &TOTP{clock: c}
}

// GenerateCode returns the code valid right now for entry.
func (o *TOTP) GenerateCode(entry vault.Entry) (string, error) {
	opts, err := validateOpts(entry)
	if err != nil {
		return "", err
	}
	var code string
	err = entry.Info.Secret.Use(func(secret []byte) error {
		var gerr error
		code, gerr = totp.GenerateCodeCustom(string(secret), o.clock.Now(), opts)
		return gerr
	})
	if err != nil {
		return "", fmt.Errorf("generate code for %s: %w", entry.Label(), err)
	}
	return code, nil
}

// RemainingSeconds returns the seconds until the current code expires, in
// [1, period].
func (o *TOTP) RemainingSeconds(entry vault.Entry) (int, error) {
	if entry.Info.Period <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, entry.Info.Period)
	}
	period := int64(entry.Info.Period)
	return int(period - o.clock.Now().Unix()%period), nil
}

func validateOpts(entry vault.Entry) (totp.ValidateOpts, error) {
	if entry.Type != vault.TypeTOTP {
		return totp.ValidateOpts{}, fmt.Errorf("%w: %s", ErrUnsupportedType, entry.Type)
	}
	if entry.Info.Period <= 0 {
		return totp.ValidateOpts{}, fmt.Errorf("%w: %d", ErrInvalidPeriod, entry.Info.Period)
	}
	algo, err := Algorithm(entry.Info.Algo)
	if err != nil {
		return totp.ValidateOpts{}, err
	}
	return totp.ValidateOpts{
		Period:    uint(entry.Info.Period),
		Digits:    potp.Digits(entry.Info.Digits),
		Algorithm: algo,
	}, nil
}

// Algorithm maps an Aegis algorithm name to its pquerna/otp value.
func Algorithm(name string) (potp.Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SHA1":
		return potp.AlgorithmSHA1, nil
	case "SHA256":
		return potp.AlgorithmSHA256, nil
	case "SHA512":
		return potp.AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}
