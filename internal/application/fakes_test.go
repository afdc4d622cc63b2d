package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/output"
)

// memDB is an in-memory store shared by the repository fakes. Its mutex
// plays the role of the event row lock during admission.
type memDB struct {
	mu         sync.Mutex
	seq        int
	events     map[string]entities.Event
	regs       []entities.Registration
	appraisals []entities.Appraisal
	users      map[string]entities.User
	orgs       map[string]entities.Organization
	failWith   error
}

func newMemDB() *memDB {
	return &memDB{
		events: make(map[string]entities.Event),
		users:  make(map[string]entities.User),
		orgs:   make(map[string]entities.Organization),
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return prefix + "-" + strconv.Itoa(db.seq)
}

func (db *memDB) confirmedCount(eventID string) int {
	n := 0
	for _, r := range db.regs {
		if r.EventID == eventID && r.Status == domain.StatusConfirmed {
			n++
		}
	}
	return n
}

func (db *memDB) withCount(e entities.Event) entities.Event {
	e.RegistrationCount = db.confirmedCount(e.ID)
	if org, ok := db.orgs[e.OrganizationID]; ok {
		e.OrganizationName = org.Name
	}
	return e
}

// addEvent seeds an event and returns its id.
func (db *memDB) addEvent(e entities.Event) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e.ID == "" {
		e.ID = db.nextID("event")
	}
	db.events[e.ID] = e
	return e.ID
}

// addRegistration seeds a registration and returns its id.
func (db *memDB) addRegistration(userID, eventID, status string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextID("reg")
	db.regs = append(db.regs, entities.Registration{
		ID: id, UserID: userID, EventID: eventID, Status: status, CreatedAt: time.Now(),
	})
	return id
}

type memEvents struct{ db *memDB }

var _ output.EventRepository = memEvents{}

func (m memEvents) Create(_ context.Context, e *entities.Event) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return m.db.failWith
	}
	e.ID = m.db.nextID("event")
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.db.events[e.ID] = *e
	return nil
}

func (m memEvents) FindByID(_ context.Context, id string) (*entities.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e = m.db.withCount(e)
	return &e, nil
}

func (m memEvents) List(_ context.Context, f entities.EventFilter) ([]entities.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []entities.Event
	for _, e := range m.db.events {
		if e.Date.Before(f.From) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Description), q) {
				continue
			}
		}
		out = append(out, m.db.withCount(e))
	}
	sortByDate(out, true)
	return out, nil
}

func (m memEvents) FindByOrganizationID(_ context.Context, orgID string) ([]entities.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []entities.Event
	for _, e := range m.db.events {
		if e.OrganizationID == orgID {
			out = append(out, m.db.withCount(e))
		}
	}
	sortByDate(out, false)
	return out, nil
}

func sortByDate(events []entities.Event, asc bool) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0; j-- {
			before := events[j].Date.Before(events[j-1].Date)
			if !asc {
				before = events[j].Date.After(events[j-1].Date)
			}
			if !before {
				break
			}
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

type memRegistrations struct{ db *memDB }

var _ output.RegistrationRepository = memRegistrations{}

func (m memRegistrations) Admit(_ context.Context, eventID, userID string, decide output.AdmissionDecider) (*entities.Registration, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	state := entities.AdmissionState{Event: e, ConfirmedCount: m.db.confirmedCount(eventID)}
	for _, r := range m.db.regs {
		if r.EventID == eventID && r.UserID == userID {
			state.AlreadyRegistered = true
		}
	}
	if err := decide(state); err != nil {
		return nil, err
	}
	reg := entities.Registration{
		ID: m.db.nextID("reg"), UserID: userID, EventID: eventID,
		Status: domain.StatusConfirmed, CreatedAt: time.Now(),
	}
	m.db.regs = append(m.db.regs, reg)
	return &reg, nil
}

func (m memRegistrations) FindByID(_ context.Context, id string) (*entities.Registration, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.regs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (m memRegistrations) FindByEventIDAndUserID(_ context.Context, eventID, userID string) (*entities.Registration, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.regs {
		if r.EventID == eventID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (m memRegistrations) FindByUserID(_ context.Context, userID string) ([]entities.Registration, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []entities.Registration
	for _, r := range m.db.regs {
		if r.UserID != userID {
			continue
		}
		if e, ok := m.db.events[r.EventID]; ok {
			e = m.db.withCount(e)
			r.Event = &e
		}
		out = append(out, r)
	}
	return out, nil
}

func (m memRegistrations) count(eventID string) int {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.db.confirmedCount(eventID)
}

type memAppraisals struct {
	db    *memDB
	clock func() time.Time
}

var _ output.AppraisalRepository = (*memAppraisals)(nil)

func (m *memAppraisals) Save(_ context.Context, a *entities.Appraisal, policy entities.DuplicatePolicy) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	now := m.clock()
	for i := range m.db.appraisals {
		cur := &m.db.appraisals[i]
		if cur.Kind != a.Kind || cur.UserID != a.UserID || cur.EventID != a.EventID {
			continue
		}
		if policy == entities.PolicyReject {
			return domain.ErrDuplicateAppraisal
		}
		cur.Rating = a.Rating
		cur.Comment = a.Comment
		cur.UpdatedAt = now
		*a = *cur
		return nil
	}
	a.ID = m.db.nextID(string(a.Kind))
	a.CreatedAt = now
	a.UpdatedAt = now
	m.db.appraisals = append(m.db.appraisals, *a)
	return nil
}

func (m *memAppraisals) FindByEventID(_ context.Context, kind entities.AppraisalKind, eventID string) ([]entities.Appraisal, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []entities.Appraisal
	for i := len(m.db.appraisals) - 1; i >= 0; i-- {
		a := m.db.appraisals[i]
		if a.Kind == kind && a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memUsers struct{ db *memDB }

var _ output.UserRepository = memUsers{}

func (m memUsers) insert(u *entities.User) error {
	for _, existing := range m.db.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.ID = m.db.nextID("user")
	u.CreatedAt = time.Now()
	m.db.users[u.ID] = *u
	return nil
}

func (m memUsers) Create(_ context.Context, u *entities.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.insert(u)
}

func (m memUsers) CreateWithOrganization(_ context.Context, u *entities.User, org *entities.Organization) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	org.ID = m.db.nextID("org")
	u.OrganizationID = org.ID
	if err := m.insert(u); err != nil {
		return err
	}
	m.db.orgs[org.ID] = *org
	return nil
}

func (m memUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// lexiconScorer scores a comment by looking up fixed words.
type lexiconScorer map[string]float64

func (l lexiconScorer) Comparative(text string) float64 {
	var sum float64
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		sum += l[strings.Trim(w, ".,!?")]
	}
	if len(words) == 0 {
		return 0
	}
	return sum / float64(len(words))
}

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []*output.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req *output.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

type fakeAnnouncer struct {
	announced []string
	err       error
}

func (f *fakeAnnouncer) AnnounceEvent(_ context.Context, e *entities.Event) error {
	f.announced = append(f.announced, e.ID)
	return f.err
}

type fakeTickets struct{ content string }

func (f *fakeTickets) RenderPNG(content string) ([]byte, error) {
	f.content = content
	return []byte("png:" + content), nil
}

var errStorage = errors.New("connection refused")

var (
	participant  = &entities.Principal{UserID: "user-p", Name: "Ana", Role: domain.RoleParticipant}
	participant2 = &entities.Principal{UserID: "user-q", Name: "Ben", Role: domain.RoleParticipant}
	organizer    = &entities.Principal{UserID: "user-o", Name: "Org", Role: domain.RoleOrganization, OrganizationID: "org-1"}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
