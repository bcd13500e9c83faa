package stego

import "fmt"

// CapacityError reports a payload that exceeds the carrier's capacity at
// embed time. It carries both sizes so the caller can pick a larger carrier
// or shrink the payload.
type CapacityError struct {
	PayloadSize int
	Capacity    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload size (%d bytes) exceeds image capacity (%d bytes)", e.PayloadSize, e.Capacity)
}

// ExtractionError reports an extraction request that is structurally
// impossible, such as a declared payload size beyond the carrier's capacity.
// It is distinct from imgutil.FormatError so callers can tell a bad request
// apart from a bad image.
type ExtractionError struct {
	RequestedSize int
	Capacity      int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("requested payload size (%d bytes) exceeds image capacity (%d bytes)", e.RequestedSize, e.Capacity)
}
