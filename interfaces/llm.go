package interfaces

import "context"

// Generator produces a reply for a recognized user turn. Implementations
// must always return some reply text; service failures degrade to a fixed
// fallback rather than an error.
type Generator interface {
	Generate(ctx context.Context, text string) string
}
