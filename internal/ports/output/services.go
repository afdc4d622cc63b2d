package output

import (
	"context"

	"community/internal/domain/entities"
)

// CompletionRequest is one chat-completion call to a language model.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []entities.ChatTurn
	Temperature  float64
	MaxTokens    int
	// JSON asks the model for a single JSON object.
	JSON bool
}

// LLM completes conversations with an external language model.
type LLM interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// SentimentScorer returns a length-normalized sentiment score of text,
// roughly within [-1, 1].
type SentimentScorer interface {
	Comparative(text string) float64
}

// Announcer publishes newly created events to an external channel.
type Announcer interface {
	AnnounceEvent(ctx context.Context, event *entities.Event) error
}

// TicketRenderer encodes a registration ticket as a PNG image.
type TicketRenderer interface {
	RenderPNG(content string) ([]byte, error)
}
