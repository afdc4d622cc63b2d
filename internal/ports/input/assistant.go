package input

import (
	"context"

	"community/internal/domain/entities"
)

type AssistantUseCase interface {
	// Search ranks upcoming events for query. It degrades to an unranked
	// list instead of failing when the model is unavailable.
	Search(ctx context.Context, p *entities.Principal, query string) ([]entities.ScoredEvent, error)
	// Chat answers message given the recent history. Model failures yield a
	// fixed apology rather than an error.
	Chat(ctx context.Context, p *entities.Principal, message string, history []entities.ChatTurn) (string, error)
}
