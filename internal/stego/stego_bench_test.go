package stego

import "testing"

func BenchmarkEmbed(b *testing.B) {
	img := newTestRGB(b, 1024, 768)
	payload := testPayload(4096)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Embed(img, payload, 12345); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	img := newTestRGB(b, 1024, 768)
	payload := testPayload(4096)
	stego, err := Embed(img, payload, 12345)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Extract(stego, len(payload), 12345); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSequence_Shuffle(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Sequence(200, 200, uint64(i), SequenceAll)
	}
}

func BenchmarkSequence_Sparse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Sequence(4000, 3000, uint64(i), 1000)
	}
}
