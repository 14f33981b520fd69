package interfaces

import "context"

// Synthesizer converts reply text to raw PCM sample bytes
// (single channel, 16-bit, 16 kHz).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
