// Package vault supplies the layers upstream of the stego codec: the payload
// wire format whose first 20 bytes form the codec's seed-independent header
// region, passphrase-based sealing of serialized vaults, the vault data
// model itself, TOTP code generation, and passphrase strength checks.
package vault

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// Magic is the 4-byte identifier opening every vault payload.
	Magic = "SVLT"
	// SaltSize is the length of the KDF salt carried in the header.
	SaltSize = 12
	// HeaderSize is the seed-independent payload prefix: magic, ciphertext
	// length, salt. It must stay equal to the codec's header region size.
	HeaderSize = 4 + 4 + SaltSize
	// Overhead is the number of payload bytes beyond the ciphertext itself.
	Overhead = HeaderSize + chacha20poly1305.NonceSize
)

var (
	// ErrInvalidMagic indicates the payload does not open with Magic.
	ErrInvalidMagic = errors.New("invalid payload magic")
	// ErrPayloadTooShort indicates a truncated payload.
	ErrPayloadTooShort = errors.New("payload too short")
	// ErrInvalidLength indicates the ciphertext length field disagrees with
	// the payload size.
	ErrInvalidLength = errors.New("invalid ciphertext length")
)

// Header is the parsed seed-independent prefix of a payload.
// Byte layout:
//
//	0-3:   Magic ("SVLT")
//	4-7:   CiphertextLen (big-endian uint32)
//	8-19:  Salt (12 bytes)
//
// Because the codec embeds these bytes in raster order regardless of seed, a
// reader recovers the salt (and hence the seed) and the payload length before
// it can read anything else.
type Header struct {
	CiphertextLen uint32
	Salt          [SaltSize]byte
}

// PayloadSize returns the total payload length described by the header.
func (h *Header) PayloadSize() int {
	return Overhead + int(h.CiphertextLen)
}

// encodePayload assembles header || nonce || ciphertext.
func encodePayload(salt, nonce, ciphertext []byte) []byte {
	payload := make([]byte, 0, Overhead+len(ciphertext))
	payload = append(payload, Magic...)
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(ciphertext)))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)
	return payload
}

// ParseHeader parses the first HeaderSize bytes of a payload.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrPayloadTooShort
	}
	if string(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}
	h := &Header{CiphertextLen: binary.BigEndian.Uint32(data[4:8])}
	copy(h.Salt[:], data[8:HeaderSize])
	return h, nil
}

// parsePayload validates a complete payload and returns its parts.
func parsePayload(data []byte) (*Header, []byte, []byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(data) != h.PayloadSize() {
		return nil, nil, nil, fmt.Errorf("%w: header declares %d payload bytes, have %d",
			ErrInvalidLength, h.PayloadSize(), len(data))
	}
	nonce := data[HeaderSize : HeaderSize+chacha20poly1305.NonceSize]
	ciphertext := data[HeaderSize+chacha20poly1305.NonceSize:]
	return h, nonce, ciphertext, nil
}
