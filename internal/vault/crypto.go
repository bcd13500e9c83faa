package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// seedInfo is the HKDF domain-separation label for pixel-order seeds.
const seedInfo = "stegvault/pixel-order/v1"

const keySize = chacha20poly1305.KeySize

// ErrDecryptFailed indicates the payload could not be authenticated, most
// commonly a wrong passphrase or a damaged stego image.
var ErrDecryptFailed = errors.New("decryption failed: wrong passphrase or corrupted payload")

// KDFParams are the argon2id cost parameters used to derive the sealing key.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams returns the argon2id parameters used when the caller has
// no configuration of its own.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

func deriveKey(passphrase, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.MemoryKiB, p.Threads, keySize)
}

// SeedFromSalt derives the pixel-order seed from the header salt via
// HKDF-SHA256. The derivation is deterministic, so any reader that has
// recovered the salt from the header region reproduces the embedder's exact
// pixel sequence.
func SeedFromSalt(salt []byte) uint64 {
	r := hkdf.New(sha256.New, salt, nil, []byte(seedInfo))
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		// HKDF over SHA-256 cannot fail for an 8-byte read.
		panic(err)
	}
	return binary.BigEndian.Uint64(buf[:])
}

// Seal encrypts plaintext under a key derived from passphrase and a fresh
// random salt, and returns the complete payload together with the pixel-order
// seed for embedding it.
func Seal(plaintext, passphrase []byte, p KDFParams) ([]byte, uint64, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, 0, fmt.Errorf("failed to generate salt: %w", err)
	}
	return SealWithSalt(plaintext, passphrase, salt, p)
}

// SealWithSalt is Seal with a caller-provided salt, for callers that need a
// reproducible pixel-order seed. The salt must be SaltSize bytes of
// cryptographically random data; reusing a salt reuses the pixel order.
func SealWithSalt(plaintext, passphrase, salt []byte, p KDFParams) ([]byte, uint64, error) {
	if len(salt) != SaltSize {
		return nil, 0, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	aead, err := chacha20poly1305.New(deriveKey(passphrase, salt, p))
	if err != nil {
		return nil, 0, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, []byte(Magic))
	return encodePayload(salt, nonce, ciphertext), SeedFromSalt(salt), nil
}

// Open authenticates and decrypts a complete payload produced by Seal.
func Open(payload, passphrase []byte, p KDFParams) ([]byte, error) {
	h, nonce, ciphertext, err := parsePayload(payload)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(deriveKey(passphrase, h.Salt[:], p))
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(Magic))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
