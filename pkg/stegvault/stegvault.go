// Package stegvault is the public API of StegVault: it seals a credential
// vault under a passphrase and hides the result in the least-significant
// bits of a carrier image, and recovers it again from nothing but the stego
// image and the passphrase.
//
// The embedded payload opens with a fixed 20-byte header (magic, ciphertext
// length, KDF salt) written to pixels in raster order regardless of seed.
// Opening therefore needs no out-of-band state: the header is read first,
// the pixel-order seed is derived from the salt, and the rest of the payload
// is read with that seed.
package stegvault

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kalashnikxvxiii-collab/StegVault/internal/imgutil"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/stego"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/vault"
)

// CapacityInfo describes how much a carrier image can hold.
type CapacityInfo struct {
	Width  int
	Height int
	// Format is the carrier's source encoding ("png", "bmp").
	Format string
	// CapacityBytes is the raw LSB capacity of the image.
	CapacityBytes int
	// MaxVaultBytes is the largest serialized vault that fits after the
	// payload framing and AEAD overhead.
	MaxVaultBytes int
}

// Options control sealing and encoding. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// KDF are the argon2id parameters for the passphrase.
	KDF vault.KDFParams
	// OutputFormat is the stego image encoding, "png" or "bmp". Empty
	// preserves the carrier's format.
	OutputFormat string
	// Logger receives debug-level progress events. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the standard options.
func DefaultOptions() *Options {
	return &Options{KDF: vault.DefaultKDFParams()}
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// CalculateCapacity decodes a carrier image and reports its capacity.
func CalculateCapacity(data []byte) (*CapacityInfo, error) {
	img, format, err := imgutil.Decode(data)
	if err != nil {
		return nil, err
	}
	capacity, err := stego.Capacity(img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	maxVault := capacity - vault.Overhead - aeadTagSize
	if maxVault < 0 {
		maxVault = 0
	}
	return &CapacityInfo{
		Width:         img.Width,
		Height:        img.Height,
		Format:        format,
		CapacityBytes: capacity,
		MaxVaultBytes: maxVault,
	}, nil
}

// CalculateCapacityFile reports the capacity of a carrier image file.
func CalculateCapacityFile(path string) (*CapacityInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return CalculateCapacity(data)
}

// aeadTagSize is the ChaCha20-Poly1305 authentication tag length.
const aeadTagSize = 16

// Create seals v under passphrase, embeds the payload into the carrier
// image, and returns the encoded stego image.
func Create(carrier []byte, passphrase []byte, v *vault.Vault, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	plaintext, err := v.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault: %w", err)
	}
	payload, seed, err := vault.Seal(plaintext, passphrase, opts.KDF)
	if err != nil {
		return nil, fmt.Errorf("failed to seal vault: %w", err)
	}
	return embedPayload(carrier, payload, seed, opts)
}

// CreateFile is Create with file paths for the carrier and output.
func CreateFile(carrierPath, outputPath string, passphrase []byte, v *vault.Vault, opts *Options) error {
	carrier, err := os.ReadFile(carrierPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	out, err := Create(carrier, passphrase, v, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, out, 0644)
}

func embedPayload(carrier, payload []byte, seed uint64, opts *Options) ([]byte, error) {
	img, format, err := imgutil.Decode(carrier)
	if err != nil {
		return nil, err
	}
	outFormat := opts.OutputFormat
	if outFormat == "" {
		outFormat = format
	}

	opts.logger().Debug("embedding payload",
		zap.Int("payload_bytes", len(payload)),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.String("format", outFormat))

	embedded, err := stego.Embed(img, payload, seed)
	if err != nil {
		return nil, err
	}
	return imgutil.Encode(embedded, outFormat)
}

// Open extracts the payload from a stego image and decrypts it back into a
// vault. Only the stego image and the passphrase are required.
func Open(stegoData []byte, passphrase []byte, opts *Options) (*vault.Vault, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	img, _, err := imgutil.Decode(stegoData)
	if err != nil {
		return nil, err
	}

	// The header region is raster-ordered, so reading it needs no seed.
	headerBytes, err := stego.Extract(img, vault.HeaderSize, 0)
	if err != nil {
		return nil, err
	}
	header, err := vault.ParseHeader(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("no vault found in image: %w", err)
	}

	seed := vault.SeedFromSalt(header.Salt[:])
	opts.logger().Debug("extracting payload",
		zap.Int("payload_bytes", header.PayloadSize()),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))

	payload, err := stego.Extract(img, header.PayloadSize(), seed)
	if err != nil {
		return nil, err
	}
	plaintext, err := vault.Open(payload, passphrase, opts.KDF)
	if err != nil {
		return nil, err
	}
	return vault.Unmarshal(plaintext)
}

// OpenFile is Open with a file path for the stego image.
func OpenFile(path string, passphrase []byte, opts *Options) (*vault.Vault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Open(data, passphrase, opts)
}
