// Package provider holds the oracle transport: OpenAI-compatible chat
// completion clients behind a small interface so the advisor and the tests
// never touch HTTP directly.
package provider

import (
	"context"

	"minerva/internal/decision"
)

// Oracle answers one verdict request with the model's raw reply body. One
// attempt per call; retry policy is deliberately absent, a failed run is
// reported, not repeated.
type Oracle interface {
	Verdict(ctx context.Context, req *decision.Request) ([]byte, error)
}
