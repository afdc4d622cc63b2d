package output

import (
	"context"

	"community/internal/domain/entities"
)

type AppraisalRepository interface {
	// Save stores a. With PolicyOverwrite an existing row for the same user
	// and event is updated in place; with PolicyReject it fails with
	// domain.ErrDuplicateAppraisal. a is updated with the stored row.
	Save(ctx context.Context, a *entities.Appraisal, policy entities.DuplicatePolicy) error
	// FindByEventID lists appraisals of one kind, newest first.
	FindByEventID(ctx context.Context, kind entities.AppraisalKind, eventID string) ([]entities.Appraisal, error)
}
