// Package imgutil handles the image boundary of the codec: decoding carrier
// images into a packed 3-channel pixel buffer, normalizing alpha, and
// encoding stego output to lossless formats.
//
// Callers should note that a 4-channel source is composited over an opaque
// white background before any bit operation; that flattening is lossy and
// irreversible.
package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/bmp"
)

// FormatError reports a carrier that cannot be decoded or has a channel
// layout the codec does not support.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image format: %s: %v", e.Reason, e.Err)
	}
	return "image format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// RGB is a packed 8-bit 3-channel pixel buffer in row-major order.
// Channels are stored R, G, B at offsets +0, +1, +2 from PixOffset; rows run
// top to bottom, pixels left to right. This layout fixes the raster-order and
// channel-order conventions the codec depends on.
type RGB struct {
	Width  int
	Height int
	// Stride is the distance in bytes between vertically adjacent pixels.
	Stride int
	Pix    []uint8
}

// NewRGB allocates a zeroed buffer for the given dimensions.
func NewRGB(width, height int) (*RGB, error) {
	if width < 1 || height < 1 {
		return nil, &FormatError{Reason: fmt.Sprintf("invalid dimensions %dx%d", width, height)}
	}
	return &RGB{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pix:    make([]uint8, width*height*3),
	}, nil
}

// PixOffset returns the index of the R channel of the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return y*p.Stride + x*3
}

// Clone returns an independent copy of the buffer.
func (p *RGB) Clone() *RGB {
	pix := make([]uint8, len(p.Pix))
	copy(pix, p.Pix)
	return &RGB{Width: p.Width, Height: p.Height, Stride: p.Stride, Pix: pix}
}

// FromImage converts a decoded image to the packed RGB layout. 3-channel and
// 4-channel sources are accepted; 4-channel sources are composited over
// opaque white. Any other layout fails with a FormatError.
func FromImage(img image.Image) (*RGB, error) {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported channel layout %T", img)}
	}

	bounds := img.Bounds()
	out, err := NewRGB(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := out.PixOffset(x, y)
			out.Pix[off] = compositeWhite(c.R, c.A)
			out.Pix[off+1] = compositeWhite(c.G, c.A)
			out.Pix[off+2] = compositeWhite(c.B, c.A)
		}
	}
	return out, nil
}

// compositeWhite flattens a straight-alpha channel value over opaque white.
func compositeWhite(v, a uint8) uint8 {
	if a == 0xFF {
		return v
	}
	return uint8((uint32(v)*uint32(a) + 0xFF*(0xFF-uint32(a)) + 0x7F) / 0xFF)
}

// ToImage converts the buffer back to a stdlib image for encoding.
// Alpha is fully opaque.
func (p *RGB) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			src := p.PixOffset(x, y)
			dst := img.PixOffset(x, y)
			img.Pix[dst] = p.Pix[src]
			img.Pix[dst+1] = p.Pix[src+1]
			img.Pix[dst+2] = p.Pix[src+2]
			img.Pix[dst+3] = 0xFF
		}
	}
	return img
}

// Decode decodes PNG or BMP data into an RGB buffer.
// Returns the buffer and the source format name.
func Decode(data []byte) (*RGB, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &FormatError{Reason: "decode failed", Err: err}
	}
	rgb, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return rgb, format, nil
}

// DecodeFile decodes an image file into an RGB buffer.
func DecodeFile(path string) (*RGB, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}

// Encode encodes the buffer to the named lossless format ("png" or "bmp").
// Lossy formats are rejected outright: any recompression of pixel values
// destroys embedded LSBs.
func Encode(p *RGB, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png", "image/png":
		if err := png.Encode(&buf, p.ToImage()); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	case "bmp", "image/bmp":
		if err := bmp.Encode(&buf, p.ToImage()); err != nil {
			return nil, fmt.Errorf("failed to encode BMP: %w", err)
		}
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported output format %q (lossless formats only)", format)}
	}
	return buf.Bytes(), nil
}

// EncodeFile encodes the buffer and writes it to path.
func EncodeFile(p *RGB, format, path string) error {
	data, err := Encode(p, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
