// Package bitstream converts between byte buffers and ordered bit sequences.
//
// Bits are always ordered most-significant-bit first within each byte. This
// ordering is part of the stego wire contract and must not change.
package bitstream

// BytesToBits expands data into one boolean per bit, MSB first.
// The result always has length 8*len(data).
func BytesToBits(data []byte) []bool {
	if len(data) == 0 {
		return nil
	}
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>shift)&1 == 1)
		}
	}
	return bits
}

// BitsToBytes packs bits into bytes, MSB first. If len(bits) is not a
// multiple of 8 the tail is padded with zero bits. The caller is responsible
// for truncating the input to the exact number of bits it means to decode;
// the stream carries no end marker.
func BitsToBytes(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}
