package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/infrastructure/logging"
	"community/internal/infrastructure/metrics"
	"community/internal/ports/input"
	"community/internal/ports/output"
	"community/internal/validation"
)

var _ input.AppraisalUseCase = (*AppraisalService)(nil)

// AppraisalService handles reviews and feedback: both share one eligibility
// gate and differ only in their duplicate policy.
type AppraisalService struct {
	eventRepo        output.EventRepository
	registrationRepo output.RegistrationRepository
	appraisalRepo    output.AppraisalRepository
	scorer           output.SentimentScorer
	now              func() time.Time
}

func NewAppraisalService(
	eventRepo output.EventRepository,
	registrationRepo output.RegistrationRepository,
	appraisalRepo output.AppraisalRepository,
	scorer output.SentimentScorer,
) *AppraisalService {
	return &AppraisalService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		appraisalRepo:    appraisalRepo,
		scorer:           scorer,
		now:              time.Now,
	}
}

func (s *AppraisalService) Submit(ctx context.Context, p *entities.Principal, kind entities.AppraisalKind, in input.AppraisalInput) (*entities.Appraisal, bool, error) {
	a, err := s.submit(ctx, p, kind, in)
	metrics.Appraisals.WithLabelValues(string(kind), metrics.Outcome(domain.Code(err), err)).Inc()
	if err != nil {
		return nil, false, err
	}
	created := a.CreatedAt.Equal(a.UpdatedAt)
	logging.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("event_id", a.EventID).
		Bool("created", created).
		Msg("appraisal stored")
	return a, created, nil
}

func (s *AppraisalService) submit(ctx context.Context, p *entities.Principal, kind entities.AppraisalKind, in input.AppraisalInput) (*entities.Appraisal, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if p.Role == domain.RoleOrganization {
		return nil, domain.ErrOrganizationAppraise
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrationRepo.FindByEventIDAndUserID(ctx, in.EventID, p.UserID)
	if err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	if err := entities.CheckAppraisalEligibility(p.Role, event.PhaseAt(s.now()), reg); err != nil {
		return nil, err
	}

	a := &entities.Appraisal{
		Kind:     kind,
		UserID:   p.UserID,
		UserName: p.Name,
		EventID:  in.EventID,
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}
	if err := s.appraisalRepo.Save(ctx, a, kind.Policy()); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppraisalService) List(ctx context.Context, kind entities.AppraisalKind, eventID string) ([]entities.Appraisal, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, domain.NewValidationError("eventId", "eventId is required")
	}
	return s.appraisalRepo.FindByEventID(ctx, kind, eventID)
}

// SentimentReport summarizes reviews of the caller's past events. It is
// recomputed on every call.
func (s *AppraisalService) SentimentReport(ctx context.Context, p *entities.Principal) ([]entities.EventSentiment, error) {
	if err := requireOrganization(p); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindByOrganizationID(ctx, p.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("find organization events: %w", err)
	}

	now := s.now()
	out := make([]entities.EventSentiment, 0, len(events))
	for i := range events {
		event := &events[i]
		if event.PhaseAt(now) != entities.PhasePast {
			continue
		}
		reviews, err := s.appraisalRepo.FindByEventID(ctx, entities.KindReview, event.ID)
		if err != nil {
			return nil, fmt.Errorf("find reviews: %w", err)
		}
		out = append(out, summarize(event, reviews, s.scorer))
	}
	return out, nil
}
