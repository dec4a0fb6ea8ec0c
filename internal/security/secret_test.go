// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package security

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
)

func TestSecretRedactionAndJSON(t *testing.T) {
	s := FromString("JBSWY3DPEHPK3PXP")
	if fmt.Sprintf("%v", s) != "[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%v", s))
	}
	if fmt.Sprintf("%s", s) != "[SECRET]" {
		t.Fatalf("unexpected %%s output: %q", fmt.Sprintf("%s", s))
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[SECRET]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
}

func TestSecretUnmarshalJSON_PlainString(t *testing.T) {
	var holder struct {
		Secret Secret `json:"secret"`
	}
	if err := json.Unmarshal([]byte(`{"secret":"JBSWY3DPEHPK3PXP"}`), &holder); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if holder.Secret.Reveal() != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("unexpected secret %q", holder.Secret.Reveal())
	}
}

func TestSecretUnmarshalJSON_Null(t *testing.T) {
	s := FromString("x")
	if err := (&s).UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !s.Empty() {
		t.Fatalf("expected empty secret after null")
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("abc123")
	(&s).Zero()
	if err := s.Use(func(b []byte) error {
		for i := range b {
			if b[i] != 0 {
				t.Fatalf("expected zeroed byte at index %d, got %d", i, b[i])
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("s.Use failed: %v", err)
	}
}

func TestSecretBytesIsCopy(t *testing.T) {
	s := FromBytes([]byte("sensitive"))
	c := s.Bytes()
	if !bytes.Equal(c, []byte("sensitive")) {
		t.Fatalf("copy doesn't match original: %v", c)
	}
	c[0] = 'X'
	if s.Reveal() != "sensitive" {
		t.Fatalf("modifying the copy changed the secret: %q", s.Reveal())
	}
}
