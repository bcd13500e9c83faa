// Package stego implements LSB steganography over packed RGB pixel buffers:
// a capacity model, a deterministic seed-driven pixel-visitation order, and
// exactly-reversible embed/extract operations.
//
// The payload is laid out in two phases. The first HeaderSize bytes are
// written to pixels in raster order (row-major, x ascending, R, G, B within
// a pixel) independent of the seed, so a reader can recover a magic value
// and salt, and from the salt the seed itself, before anything else. The
// remaining bytes are written to a pseudo-random pixel sequence derived from
// the seed.
//
// The body sequence draws from the full coordinate domain and does not
// exclude pixels already used by the header. When a body pixel lands in the
// header region its write overwrites the header bit, and extraction reads
// back the overwritten value. This matches the established wire format and
// is kept for compatibility; it is a known fragility for small images, where
// the collision is likely, not merely possible.
package stego

import (
	"github.com/kalashnikxvxiii-collab/StegVault/internal/bitstream"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/imgutil"
)

// HeaderSize is the length in bytes of the seed-independent header region.
// It is part of the wire contract; changing it breaks every previously
// produced stego image.
const HeaderSize = 20

const channelsPerPixel = 3

// Capacity returns the maximum payload size in bytes for an image of the
// given dimensions: one bit per color channel, three channels per pixel.
func Capacity(width, height int) (int, error) {
	if width < 1 || height < 1 {
		return 0, &imgutil.FormatError{Reason: "non-positive image dimensions"}
	}
	return width * height * channelsPerPixel / 8, nil
}

// Embed writes payload into the channel LSBs of img following the two-phase
// visitation order and returns the modified buffer. The input buffer is not
// mutated. Fails with *CapacityError if the payload does not fit.
func Embed(img *imgutil.RGB, payload []byte, seed uint64) (*imgutil.RGB, error) {
	capacity, err := Capacity(img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	if len(payload) > capacity {
		return nil, &CapacityError{PayloadSize: len(payload), Capacity: capacity}
	}

	out := img.Clone()
	bits := bitstream.BytesToBits(payload)

	headerBits := HeaderSize * 8
	if len(bits) < headerBits {
		headerBits = len(bits)
	}

	// Header phase: raster order, seed-independent.
	idx := 0
	for y := 0; y < out.Height && idx < headerBits; y++ {
		for x := 0; x < out.Width && idx < headerBits; x++ {
			off := out.PixOffset(x, y)
			for c := 0; c < channelsPerPixel && idx < headerBits; c++ {
				out.Pix[off+c] = setLSB(out.Pix[off+c], bits[idx])
				idx++
			}
		}
	}

	// Body phase: seed-derived pixel order over the full domain.
	if idx < len(bits) {
		pixelsNeeded := (len(bits) - idx + channelsPerPixel - 1) / channelsPerPixel
		for _, pt := range Sequence(out.Width, out.Height, seed, pixelsNeeded) {
			if idx >= len(bits) {
				break
			}
			off := out.PixOffset(pt.X, pt.Y)
			for c := 0; c < channelsPerPixel && idx < len(bits); c++ {
				out.Pix[off+c] = setLSB(out.Pix[off+c], bits[idx])
				idx++
			}
		}
	}

	return out, nil
}

// Extract reads payloadSize bytes back out of img using the same two-phase
// order as Embed with the same seed. Fails with *ExtractionError if the
// requested size exceeds the image's capacity. Extraction never judges
// whether the recovered bytes are meaningful; that belongs to the caller.
func Extract(img *imgutil.RGB, payloadSize int, seed uint64) ([]byte, error) {
	capacity, err := Capacity(img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	if payloadSize < 0 || payloadSize > capacity {
		return nil, &ExtractionError{RequestedSize: payloadSize, Capacity: capacity}
	}
	if payloadSize == 0 {
		return []byte{}, nil
	}

	bitsNeeded := payloadSize * 8
	headerBits := HeaderSize * 8
	if bitsNeeded < headerBits {
		headerBits = bitsNeeded
	}

	bits := make([]bool, 0, bitsNeeded)
	for y := 0; y < img.Height && len(bits) < headerBits; y++ {
		for x := 0; x < img.Width && len(bits) < headerBits; x++ {
			off := img.PixOffset(x, y)
			for c := 0; c < channelsPerPixel && len(bits) < headerBits; c++ {
				bits = append(bits, img.Pix[off+c]&1 == 1)
			}
		}
	}

	if len(bits) < bitsNeeded {
		pixelsNeeded := (bitsNeeded - len(bits) + channelsPerPixel - 1) / channelsPerPixel
		for _, pt := range Sequence(img.Width, img.Height, seed, pixelsNeeded) {
			if len(bits) >= bitsNeeded {
				break
			}
			off := img.PixOffset(pt.X, pt.Y)
			for c := 0; c < channelsPerPixel && len(bits) < bitsNeeded; c++ {
				bits = append(bits, img.Pix[off+c]&1 == 1)
			}
		}
	}

	return bitstream.BitsToBytes(bits[:bitsNeeded]), nil
}

// setLSB clears bit 0 of v and sets it to bit. The seven high bits are
// preserved bit-for-bit.
func setLSB(v uint8, bit bool) uint8 {
	if bit {
		return v&0xFE | 1
	}
	return v & 0xFE
}
