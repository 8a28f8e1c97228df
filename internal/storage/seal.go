package storage

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealKeySize is the required key length for snapshot sealing.
const SealKeySize = chacha20poly1305.KeySize

// ErrSealOpen indicates a sealed blob failed authentication.
var ErrSealOpen = errors.New("storage: sealed blob failed to open")

// Sealer encrypts and authenticates snapshot blobs with
// XChaCha20-Poly1305. The random nonce is prepended to the ciphertext.
type Sealer struct {
	key []byte
}

// NewSealer creates a Sealer from a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != SealKeySize {
		return nil, fmt.Errorf("storage: seal key must be %d bytes, got %d", SealKeySize, len(key))
	}
	k := make([]byte, SealKeySize)
	copy(k, key)
	return &Sealer{key: k}, nil
}

// Seal encrypts plain and returns nonce||ciphertext.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("storage: seal: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("storage: seal nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

// Open decrypts a blob produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrSealOpen
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealOpen
	}
	return plain, nil
}
