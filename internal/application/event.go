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
	"community/internal/ports/input"
	"community/internal/ports/output"
	"community/internal/validation"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	eventRepo        output.EventRepository
	registrationRepo output.RegistrationRepository
	appraisalRepo    output.AppraisalRepository
	announcer        output.Announcer
	now              func() time.Time
}

func NewEventService(
	eventRepo output.EventRepository,
	registrationRepo output.RegistrationRepository,
	appraisalRepo output.AppraisalRepository,
	announcer output.Announcer,
) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		appraisalRepo:    appraisalRepo,
		announcer:        announcer,
		now:              time.Now,
	}
}

// requireOrganization checks that p is an organization account bound to an organization.
func requireOrganization(p *entities.Principal) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	if p.Role != domain.RoleOrganization {
		return domain.ErrOrganizationOnly
	}
	if p.OrganizationID == "" {
		return domain.ErrOrganizationMissing
	}
	return nil
}

func (s *EventService) CreateEvent(ctx context.Context, p *entities.Principal, in input.CreateEventInput) (*entities.Event, error) {
	if err := requireOrganization(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "date must be a valid ISO 8601 date/time")
	}

	event := &entities.Event{
		OrganizationID:  p.OrganizationID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Date:            date.UTC(),
		Location:        in.Location,
		DurationMinutes: in.Duration,
		Capacity:        in.Capacity,
		Category:        in.Category,
	}
	if in.Price != nil {
		event.Price = *in.Price
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if s.announcer != nil {
		if err := s.announcer.AnnounceEvent(ctx, event); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("event_id", event.ID).Msg("event announcement failed")
		}
	}
	return event, nil
}

func (s *EventService) ListUpcoming(ctx context.Context, category, search string) ([]entities.Event, error) {
	return s.eventRepo.List(ctx, entities.EventFilter{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
		From:     s.now(),
	})
}

func (s *EventService) GetEventDetail(ctx context.Context, p *entities.Principal, eventID string) (*entities.EventDetail, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.appraisalRepo.FindByEventID(ctx, entities.KindReview, eventID)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	ratings := make([]int, len(reviews))
	for i := range reviews {
		ratings[i] = reviews[i].Rating
	}

	detail := &entities.EventDetail{
		Event:         *event,
		Phase:         event.PhaseAt(s.now()),
		AverageRating: entities.AverageRating(ratings),
		ReviewCount:   len(reviews),
	}
	if p != nil && p.Role == domain.RoleParticipant {
		reg, err := s.registrationRepo.FindByEventIDAndUserID(ctx, eventID, p.UserID)
		if err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, fmt.Errorf("find registration: %w", err)
		}
		detail.IsRegistered = reg != nil
		detail.CanReview = entities.CheckAppraisalEligibility(p.Role, detail.Phase, reg) == nil
	}
	return detail, nil
}

func (s *EventService) ListOrganizationEvents(ctx context.Context, p *entities.Principal) ([]entities.EventSummary, error) {
	if err := requireOrganization(p); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindByOrganizationID(ctx, p.OrganizationID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]entities.EventSummary, len(events))
	for i := range events {
		out[i] = entities.EventSummary{Event: events[i], Phase: events[i].PhaseAt(now)}
	}
	return out, nil
}

// ListOrganizationReviews returns the reviews of one of the caller's events.
// Events of other organizations are reported as not found.
func (s *EventService) ListOrganizationReviews(ctx context.Context, p *entities.Principal, eventID string) ([]entities.Appraisal, error) {
	if err := requireOrganization(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, domain.NewValidationError("eventId", "eventId is required")
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizationID != p.OrganizationID {
		return nil, domain.ErrEventNotFound
	}
	return s.appraisalRepo.FindByEventID(ctx, entities.KindReview, eventID)
}
