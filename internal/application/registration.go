package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/infrastructure/metrics"
	"community/internal/ports/input"
	"community/internal/ports/output"
)

var _ input.RegistrationUseCase = (*RegistrationService)(nil)

// Reminder windows, both inclusive of their bounds.
const (
	dayBeforeWindow  = 24 * time.Hour
	hourBeforeWindow = time.Hour
)

type RegistrationService struct {
	registrationRepo output.RegistrationRepository
	tickets          output.TicketRenderer
	now              func() time.Time
}

func NewRegistrationService(registrationRepo output.RegistrationRepository, tickets output.TicketRenderer) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		tickets:          tickets,
		now:              time.Now,
	}
}

// Register admits p to the event. Existence, capacity and duplicate checks
// run inside the storage transaction that inserts the row.
func (s *RegistrationService) Register(ctx context.Context, p *entities.Principal, eventID string) (*entities.Registration, error) {
	reg, err := s.register(ctx, p, eventID)
	metrics.Registrations.WithLabelValues(metrics.Outcome(domain.Code(err), err)).Inc()
	return reg, err
}

func (s *RegistrationService) register(ctx context.Context, p *entities.Principal, eventID string) (*entities.Registration, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if p.Role != domain.RoleParticipant {
		return nil, domain.ErrParticipantOnly
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, domain.NewValidationError("eventId", "eventId is required")
	}
	return s.registrationRepo.Admit(ctx, eventID, p.UserID, entities.CheckAdmission)
}

func (s *RegistrationService) ListMine(ctx context.Context, p *entities.Principal) ([]entities.RegisteredEvent, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	regs, err := s.registrationRepo.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	now := s.now()
	out := make([]entities.RegisteredEvent, 0, len(regs))
	for _, reg := range regs {
		item := entities.RegisteredEvent{Registration: reg}
		if reg.Event != nil {
			item.Phase = reg.Event.PhaseAt(now)
		}
		out = append(out, item)
	}
	return out, nil
}

// Ticket renders the QR ticket of one of p's confirmed registrations.
// Registrations of other users are reported as not found.
func (s *RegistrationService) Ticket(ctx context.Context, p *entities.Principal, registrationID string) ([]byte, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	reg, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != p.UserID || !reg.IsConfirmed() {
		return nil, domain.ErrRegistrationNotFound
	}
	png, err := s.tickets.RenderPNG(TicketContent(reg))
	if err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return png, nil
}

// TicketContent is the text encoded in a registration's QR code.
func TicketContent(reg *entities.Registration) string {
	return fmt.Sprintf("community-ticket:%s:%s:%s", reg.ID, reg.EventID, reg.UserID)
}

func (s *RegistrationService) Notifications(ctx context.Context, p *entities.Principal) ([]entities.Notification, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	regs, err := s.registrationRepo.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}

	now := s.now()
	var out []entities.Notification
	for _, reg := range regs {
		if !reg.IsConfirmed() || reg.Event == nil {
			continue
		}
		start := reg.Event.Date
		if within(start, now, now.Add(dayBeforeWindow)) {
			out = append(out, notification(reg, "day", entities.NotifyDayBefore))
		}
		if within(start, now, now.Add(hourBeforeWindow)) {
			out = append(out, notification(reg, "hour", entities.NotifyHourBefore))
		}
	}
	return out, nil
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func notification(reg entities.Registration, suffix string, typ entities.NotificationType) entities.Notification {
	return entities.Notification{
		ID:         reg.ID + "-" + suffix,
		EventID:    reg.Event.ID,
		EventTitle: reg.Event.Title,
		EventDate:  reg.Event.Date,
		Type:       typ,
	}
}
