// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/scrypt"
)

const sampleDB = `{
  "version": 3,
  "entries": [
    {"type":"totp","uuid":"3ae6f1ad-2e65-4ed2-a3f1-1e9a5f0a1c01","name":"me@x.com","issuer":"Google","note":"","favorite":false,
     "info":{"secret":"JBSWY3DPEHPK3PXP","algo":"SHA1","digits":6,"period":30},"groups":[]},
    {"type":"hotp","uuid":"3ae6f1ad-2e65-4ed2-a3f1-1e9a5f0a1c02","name":"legacy","issuer":"Bank","note":"",
     "info":{"secret":"JBSWY3DPEHPK3PXP","algo":"SHA1","digits":6,"counter":3}},
    {"type":"totp","uuid":"3ae6f1ad-2e65-4ed2-a3f1-1e9a5f0a1c03","name":"dev","issuer":"GitHub","note":"work","favorite":true,
     "info":{"secret":"GEZDGNBVGY3TQOJQ","algo":"SHA256","digits":8,"period":60},"groups":["g1"]}
  ]
}`

func plainVault(t *testing.T, db string) []byte {
	t.Helper()
	return []byte(`{"version":1,"header":{"slots":null,"params":null},"db":` + db + `}`)
}

func seal(t *testing.T, key, plaintext []byte) (ciphertext []byte, params KeyParams) {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatalf("gcm: %v", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		t.Fatalf("nonce: %v", err)
	}
	out := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(out) - gcm.Overhead()
	return out[:split], KeyParams{Nonce: hex.EncodeToString(nonce), Tag: hex.EncodeToString(out[split:])}
}

// encryptedVault builds a vault with one password slot per password. Small
// scrypt parameters keep the tests fast.
func encryptedVault(t *testing.T, db string, passwords ...string) []byte {
	t.Helper()
	masterKey := make([]byte, masterKeyLen)
	if _, err := rand.Read(masterKey); err != nil {
		t.Fatalf("master key: %v", err)
	}

	var slots []Slot
	for _, pw := range passwords {
		salt := make([]byte, 32)
		if _, err := rand.Read(salt); err != nil {
			t.Fatalf("salt: %v", err)
		}
		derived, err := scrypt.Key([]byte(pw), salt, 1024, 8, 1, masterKeyLen)
		if err != nil {
			t.Fatalf("scrypt: %v", err)
		}
		encKey, params := seal(t, derived, masterKey)
		slots = append(slots, Slot{
			Type:      SlotTypePassword,
			Key:       hex.EncodeToString(encKey),
			KeyParams: params,
			N:         1024,
			R:         8,
			P:         1,
			Salt:      hex.EncodeToString(salt),
		})
	}

	ciphertext, params := seal(t, masterKey, []byte(db))
	encoded, err := json.Marshal(base64.StdEncoding.EncodeToString(ciphertext))
	if err != nil {
		t.Fatalf("marshal db: %v", err)
	}
	out, err := json.Marshal(File{
		Version: 1,
		Header:  Header{Slots: slots, Params: &params},
		DB:      encoded,
	})
	if err != nil {
		t.Fatalf("marshal vault: %v", err)
	}
	return out
}
