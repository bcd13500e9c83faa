package stego

// Deterministic pixel-visitation order for the body region.
//
// The generator must be bit-for-bit reproducible across platforms and
// releases for a given (width, height, seed, count), so it is built on a
// fixed splitmix64 generator and a Fisher-Yates shuffle iterating from the
// end, never on a runtime's default random facility.

const (
	// Images below this pixel count always use the full-domain shuffle.
	shuffleAllThreshold = 50000
	// Sparse sampling only pays off when few pixels are needed relative to
	// the domain.
	sparseCountFraction = 0.1
)

// SequenceAll requests a sequence covering every pixel of the image.
const SequenceAll = -1

// Point is a pixel coordinate, 0 <= X < width, 0 <= Y < height.
type Point struct {
	X int
	Y int
}

// splitmix64 is a 64-bit linear generator with a fixed, documented update
// rule (Steele, Lea, Flood 2014). State advances by the golden-gamma constant
// and the output is a finalizing mix of the state.
type splitmix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitmix64 {
	return &splitmix64{state: seed}
}

func (r *splitmix64) Uint64() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Intn returns a value in [0, n). Plain modulo reduction: the tiny bias is
// irrelevant here, a stable mapping is not.
func (r *splitmix64) Intn(n int) int {
	return int(r.Uint64() % uint64(n))
}

// Sequence produces a deterministic, seed-derived ordering of count distinct
// pixel coordinates over the full width x height domain. Pass SequenceAll
// for count to order every pixel.
//
// Two strategies are used. The full-domain shuffle enumerates all pixels in
// raster order, permutes them with a seeded Fisher-Yates, and takes the first
// count entries. For large images needing few pixels, sparse rejection
// sampling draws linear indices from the same generator and skips duplicates,
// avoiding materializing the whole domain. The strategy split (and its
// thresholds) is part of the wire contract: both sides of an embed/extract
// pair select the same strategy from the same inputs.
func Sequence(width, height int, seed uint64, count int) []Point {
	totalPixels := width * height

	if count == SequenceAll || count >= totalPixels ||
		float64(count) > float64(totalPixels)*sparseCountFraction ||
		totalPixels < shuffleAllThreshold {
		return shuffledSequence(width, height, seed, count)
	}
	return sampledSequence(width, height, seed, count)
}

func shuffledSequence(width, height int, seed uint64, count int) []Point {
	totalPixels := width * height
	points := make([]Point, 0, totalPixels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			points = append(points, Point{X: x, Y: y})
		}
	}

	rng := newSplitMix64(seed)
	for i := totalPixels - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		points[i], points[j] = points[j], points[i]
	}

	if count == SequenceAll || count >= totalPixels {
		return points
	}
	return points[:count]
}

func sampledSequence(width, height int, seed uint64, count int) []Point {
	totalPixels := width * height
	rng := newSplitMix64(seed)

	points := make([]Point, 0, count)
	seen := make(map[int]struct{}, count)
	for len(points) < count {
		pos := rng.Intn(totalPixels)
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		points = append(points, Point{X: pos % width, Y: pos / width})
	}
	return points
}
