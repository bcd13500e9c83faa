package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"
)

func TestHeaderSizeMatchesStegoContract(t *testing.T) {
	// The stego codec embeds exactly 20 bytes seed-independently.
	assert.Equal(t, 20, HeaderSize)
}

func TestEncodeParsePayload(t *testing.T) {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i + 1)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	ciphertext := []byte("not really ciphertext, but opaque")

	payload := encodePayload(salt, nonce, ciphertext)
	require.Len(t, payload, Overhead+len(ciphertext))
	assert.Equal(t, Magic, string(payload[:4]))

	h, gotNonce, gotCT, err := parsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, salt, h.Salt[:])
	assert.Equal(t, uint32(len(ciphertext)), h.CiphertextLen)
	assert.Equal(t, nonce, gotNonce)
	assert.Equal(t, ciphertext, gotCT)
	assert.Equal(t, len(payload), h.PayloadSize())
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte("SVLT"), ErrPayloadTooShort},
		{"bad magic", make([]byte, HeaderSize), ErrInvalidMagic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParsePayload_LengthMismatch(t *testing.T) {
	salt := make([]byte, SaltSize)
	nonce := make([]byte, chacha20poly1305.NonceSize)
	payload := encodePayload(salt, nonce, []byte("1234"))

	_, _, _, err := parsePayload(payload[:len(payload)-1])
	assert.ErrorIs(t, err, ErrInvalidLength)
}
