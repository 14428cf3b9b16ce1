package port

import (
	"context"

	"prokura/internal/domain"
)

// CompletionClient abstracts the generative-AI text-completion service.
// Implementations own retry and timeout policy for the network call.
type CompletionClient interface {
	Complete(ctx context.Context, prompt domain.ExtractionPrompt) (string, error)
}
