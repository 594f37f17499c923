// Package vault encrypts wallet private keys at rest and hashes user
// passwords. Keys are encrypted with AES-256-CBC under a key derived
// from the configured secret; the on-disk format is "ivHex:cipherHex".
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 10000
	pbkdf2KeyLength  = 64
)

// DecryptionError indicates that a stored ciphertext could not be
// decrypted: malformed format, corrupted data or a wrong secret. It is
// fatal to the calling operation and never retried.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return "vault: decryption failed: " + e.Reason
}

// Vault performs private key encryption and password hashing.
type Vault struct {
	key  [32]byte
	salt []byte
}

// New creates a vault. The cipher key is derived from secret; salt is
// the application-wide password hashing salt.
func New(secret, salt string) *Vault {
	return &Vault{
		key:  sha256.Sum256([]byte(secret)),
		salt: []byte(salt),
	}
}

// Encrypt encrypts plaintext and returns "ivHex:cipherHex". A fresh
// random IV is generated on every call.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		return "", errors.Wrap(err, "vault: create cipher")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", errors.Wrap(err, "vault: generate iv")
	}

	padded := pad([]byte(plaintext))
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Besides the current 2-segment format it
// accepts the legacy 3-segment format "tag:ivHex:cipherHex" written by
// an earlier version; the leading cipher-name tag is dropped on read.
// New writes always use the current format.
func (v *Vault) Decrypt(encrypted string) (string, error) {
	parts := strings.Split(encrypted, ":")

	switch len(parts) {
	case 2:
	case 3:
		parts = parts[1:]
	default:
		return "", &DecryptionError{Reason: "invalid segment count"}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", &DecryptionError{Reason: "invalid iv hex"}
	}
	if len(iv) != aes.BlockSize {
		return "", &DecryptionError{Reason: "invalid iv length"}
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", &DecryptionError{Reason: "invalid ciphertext hex"}
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", &DecryptionError{Reason: "invalid ciphertext length"}
	}

	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		return "", errors.Wrap(err, "vault: create cipher")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext)
	if err != nil {
		return "", &DecryptionError{Reason: "invalid padding"}
	}

	return string(unpadded), nil
}

// HashPassword derives a slow one-way hash from a password.
func (v *Vault) HashPassword(password string) string {
	sum := pbkdf2.Key([]byte(password), v.salt,
		pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(sum)
}

// VerifyPassword recomputes the hash and compares in constant time.
func (v *Vault) VerifyPassword(password, hash string) bool {
	computed := v.HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// pad applies PKCS#7 padding to a full AES block multiple.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty data")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, errors.New("bad padding length")
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("bad padding byte")
		}
	}

	return data[:len(data)-n], nil
}
