// Package cardvault encrypts card fields at the persistence boundary.
// Fields are decrypted only at the point of use (a capture call) and the
// plaintext is never stored or cached anywhere else.
package cardvault

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidKey           = errors.New("card vault key must be 32 bytes hex-encoded")
	ErrCiphertextCorrupted  = errors.New("ciphertext corrupted or key mismatch")
	ErrPlaintextEmpty       = errors.New("plaintext must not be empty")
	ErrCiphertextTooShort   = errors.New("ciphertext shorter than nonce")
	ErrCiphertextNotEncoded = errors.New("ciphertext is not valid base64")
)

type Vault struct {
	key []byte
}

func NewVault(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	return &Vault{key: key}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns
// base64(nonce || ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrPlaintextEmpty
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (v *Vault) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCiphertextNotEncoded
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}

	if len(sealed) < aead.NonceSize() {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCiphertextCorrupted
	}

	return string(plaintext), nil
}
