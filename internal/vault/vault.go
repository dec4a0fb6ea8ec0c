// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault reads Aegis authenticator vault files, both plain and
// password-encrypted, optionally zstd-compressed.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/aegis-otp/internal/security"
	"golang.org/x/crypto/scrypt"
)

// SupportedVersion is the only vault container version understood.
const SupportedVersion = 1

// SlotTypePassword identifies scrypt password slots.
const SlotTypePassword = 1

const (
	masterKeyLen = 32
	gcmTagSize   = 16
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	// ErrUnsupportedVersion is returned for vault containers other than version 1.
	ErrUnsupportedVersion = errors.New("vault: unsupported vault version")
	// ErrMalformedVault is returned when the file is not a valid Aegis vault.
	ErrMalformedVault = errors.New("vault: malformed vault")
	// ErrNoPasswordSlot is returned when an encrypted vault has no password slot.
	ErrNoPasswordSlot = errors.New("vault: no password slot found")
	// ErrBadPassword is returned when no password slot could be opened.
	ErrBadPassword = errors.New("vault: wrong password or corrupted slot")
)

// KeyParams are the AES-GCM nonce and tag, hex encoded.
type KeyParams struct {
	Nonce string `json:"nonce"`
	Tag   string `json:"tag"`
}

// Slot is one way of unlocking the master key.
type Slot struct {
	Type      int       `json:"type"`
	UUID      string    `json:"uuid"`
	Key       string    `json:"key"`
	KeyParams KeyParams `json:"key_params"`
	N         int       `json:"n"`
	R         int       `json:"r"`
	P         int       `json:"p"`
	Salt      string    `json:"salt"`
	Repaired  bool      `json:"repaired"`
	IsBackup  bool      `json:"is_backup"`
}

// Header describes how the database is encrypted. Both fields are null for
// plain vaults.
type Header struct {
	Slots  []Slot     `json:"slots"`
	Params *KeyParams `json:"params"`
}

// File is the outer vault container.
type File struct {
	Version int             `json:"version"`
	Header  Header          `json:"header"`
	DB      json.RawMessage `json:"db"`
}

// Encrypted reports whether the database needs a password.
func (f *File) Encrypted() bool {
	return f.Header.Slots != nil || f.Header.Params != nil
}

// PasswordGetter supplies the vault password when one is needed.
type PasswordGetter interface {
	GetPassword() (security.Secret, error)
}

// Load reads and opens the vault at path.
func Load(path string, pw PasswordGetter) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, pw)
}

// Parse opens a vault from its raw (possibly zstd-compressed) bytes. The
// password is only requested for encrypted vaults.
func Parse(data []byte, pw PasswordGetter) (*Database, error) {
	data, err := decompress(data)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVault, err)
	}
	if f.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if len(f.DB) == 0 {
		return nil, fmt.Errorf("%w: missing db", ErrMalformedVault)
	}

	plain := []byte(f.DB)
	if f.Encrypted() {
		if pw == nil {
			return nil, ErrBadPassword
		}
		password, err := pw.GetPassword()
		if err != nil {
			return nil, fmt.Errorf("get password: %w", err)
		}
		defer password.Zero()

		plain, err = decryptDB(&f, password)
		if err != nil {
			return nil, err
		}
	}

	var db Database
	if err := json.Unmarshal(plain, &db); err != nil {
		return nil, fmt.Errorf("%w: database: %v", ErrMalformedVault, err)
	}
	return &db, nil
}

func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedVault, err)
	}
	return out, nil
}

func decryptDB(f *File, password security.Secret) ([]byte, error) {
	if f.Header.Params == nil {
		return nil, fmt.Errorf("%w: missing header params", ErrMalformedVault)
	}

	masterKey, err := openMasterKey(f.Header.Slots, password)
	if err != nil {
		return nil, err
	}
	defer masterKey.Zero()

	var encoded string
	if err := json.Unmarshal(f.DB, &encoded); err != nil {
		return nil, fmt.Errorf("%w: db is not a string: %v", ErrMalformedVault, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: db base64: %v", ErrMalformedVault, err)
	}

	plain, err := openGCM(masterKey, *f.Header.Params, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: database: %v", ErrMalformedVault, err)
	}
	return plain, nil
}

// openMasterKey tries every password slot in order; the first one that
// authenticates yields the master key.
func openMasterKey(slots []Slot, password security.Secret) (security.Secret, error) {
	tried := 0
	for _, s := range slots {
		if s.Type != SlotTypePassword {
			continue
		}
		tried++

		salt, err := hex.DecodeString(s.Salt)
		if err != nil {
			return nil, fmt.Errorf("%w: slot salt: %v", ErrMalformedVault, err)
		}
		var derived []byte
		err = password.Use(func(p []byte) error {
			var kerr error
			derived, kerr = scrypt.Key(p, salt, s.N, s.R, s.P, masterKeyLen)
			return kerr
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scrypt: %v", ErrMalformedVault, err)
		}

		encKey, err := hex.DecodeString(s.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: slot key: %v", ErrMalformedVault, err)
		}
		key, err := openGCM(derived, s.KeyParams, encKey)
		wipe(derived)
		if err != nil {
			continue
		}
		return security.Secret(key), nil
	}
	if tried == 0 {
		return nil, ErrNoPasswordSlot
	}
	return nil, ErrBadPassword
}

// openGCM decrypts ciphertext whose tag is stored separately in params.
func openGCM(key []byte, params KeyParams, ciphertext []byte) ([]byte, error) {
	nonce, err := hex.DecodeString(params.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	tag, err := hex.DecodeString(params.Tag)
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}
	if len(tag) != gcmTagSize {
		return nil, fmt.Errorf("tag: unexpected length %d", len(tag))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes init: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, fmt.Errorf("gcm init: %w", err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	return gcm.Open(nil, nonce, sealed, nil)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
