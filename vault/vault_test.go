package vault_test

import (
	"strings"
	"testing"

	"github.com/vigneshbunny/crypto-pay/vault"
)

const testSecret = "test-secret-change-in-production"

func newVault() *vault.Vault {
	return vault.New(testSecret, "test-salt")
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v := newVault()

	plaintexts := []string{
		"a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
		"short",
		"",
		"with:colons:inside",
	}

	for _, p := range plaintexts {
		enc, err := v.Encrypt(p)
		if err != nil {
			t.Fatalf("encrypt %q: %v", p, err)
		}

		dec, err := v.Decrypt(enc)
		if err != nil {
			t.Fatalf("decrypt %q: %v", p, err)
		}

		if dec != p {
			t.Fatalf("round trip: expected %q, got %q", p, dec)
		}
	}
}

func TestEncryptFreshIV(t *testing.T) {
	v := newVault()
	p := "same plaintext"

	enc1, err := v.Encrypt(p)
	if err != nil {
		t.Fatal(err)
	}

	enc2, err := v.Encrypt(p)
	if err != nil {
		t.Fatal(err)
	}

	if enc1 == enc2 {
		t.Fatal("two encryptions of the same plaintext must differ")
	}

	for _, enc := range []string{enc1, enc2} {
		dec, err := v.Decrypt(enc)
		if err != nil {
			t.Fatal(err)
		}
		if dec != p {
			t.Fatalf("expected %q, got %q", p, dec)
		}
	}
}

func TestDecryptLegacyFormat(t *testing.T) {
	v := newVault()
	p := "legacy private key material"

	enc, err := v.Encrypt(p)
	if err != nil {
		t.Fatal(err)
	}

	// Older writes carried a leading cipher-name tag.
	legacy := "aes-256-cbc:" + enc

	dec, err := v.Decrypt(legacy)
	if err != nil {
		t.Fatalf("legacy decrypt: %v", err)
	}

	if dec != p {
		t.Fatalf("expected %q, got %q", p, dec)
	}
}

func TestDecryptMalformed(t *testing.T) {
	v := newVault()

	enc, err := v.Encrypt("payload")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.SplitN(enc, ":", 2)

	for name, input := range map[string]string{
		"no separator":      "deadbeef",
		"too many segments": "a:b:c:d",
		"bad iv hex":        "zz" + parts[0][2:] + ":" + parts[1],
		"short iv":          "deadbeef:" + parts[1],
		"bad cipher hex":    parts[0] + ":xyz",
		"partial block":     parts[0] + ":deadbeef",
		"empty cipher":      parts[0] + ":",
	} {
		if _, err := v.Decrypt(input); err == nil {
			t.Errorf("%s: expected error", name)
		} else if _, ok := err.(*vault.DecryptionError); !ok {
			t.Errorf("%s: expected DecryptionError, got %T", name, err)
		}
	}
}

func TestDecryptWrongSecret(t *testing.T) {
	enc, err := newVault().Encrypt("payload")
	if err != nil {
		t.Fatal(err)
	}

	other := vault.New("another-secret", "test-salt")
	if dec, err := other.Decrypt(enc); err == nil && dec == "payload" {
		t.Fatal("decryption with a wrong secret must not recover plaintext")
	}
}

func TestPasswordHashing(t *testing.T) {
	v := newVault()

	hash := v.HashPassword("correct horse battery staple")

	if !v.VerifyPassword("correct horse battery staple", hash) {
		t.Fatal("valid password rejected")
	}

	if v.VerifyPassword("wrong password", hash) {
		t.Fatal("invalid password accepted")
	}

	if v.VerifyPassword("correct horse battery staple", "") {
		t.Fatal("empty hash accepted")
	}
}

func TestPasswordHashDeterministic(t *testing.T) {
	v := newVault()

	if v.HashPassword("pw") != v.HashPassword("pw") {
		t.Fatal("hash must be deterministic for a fixed salt")
	}

	if v.HashPassword("pw") == v.HashPassword("pw2") {
		t.Fatal("different passwords must hash differently")
	}
}
