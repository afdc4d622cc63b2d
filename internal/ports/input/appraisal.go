package input

import (
	"context"

	"community/internal/domain/entities"
)

// AppraisalInput is the payload of a review or feedback submission.
type AppraisalInput struct {
	EventID string `json:"eventId" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

type AppraisalUseCase interface {
	// Submit stores the appraisal; created reports whether a new row was inserted.
	Submit(ctx context.Context, p *entities.Principal, kind entities.AppraisalKind, in AppraisalInput) (a *entities.Appraisal, created bool, err error)
	List(ctx context.Context, kind entities.AppraisalKind, eventID string) ([]entities.Appraisal, error)
	SentimentReport(ctx context.Context, p *entities.Principal) ([]entities.EventSentiment, error)
}
