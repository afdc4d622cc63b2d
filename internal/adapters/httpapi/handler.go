// Package httpapi exposes the community service over HTTP.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/ports/input"
	"community/internal/ports/output"
)

// Handler serves the HTTP API on top of the application use cases.
type Handler struct {
	events        input.EventUseCase
	registrations input.RegistrationUseCase
	appraisals    input.AppraisalUseCase
	accounts      input.AccountUseCase
	assistant     input.AssistantUseCase
	sessions      *SessionManager
	authz         *Authorizer
	tr            output.Translator
}

type Deps struct {
	Events        input.EventUseCase
	Registrations input.RegistrationUseCase
	Appraisals    input.AppraisalUseCase
	Accounts      input.AccountUseCase
	Assistant     input.AssistantUseCase
	Sessions      *SessionManager
	Authorizer    *Authorizer
	Translator    output.Translator
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		events:        d.Events,
		registrations: d.Registrations,
		appraisals:    d.Appraisals,
		accounts:      d.Accounts,
		assistant:     d.Assistant,
		sessions:      d.Sessions,
		authz:         d.Authorizer,
		tr:            d.Translator,
	}
}

// Events

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.events.ListUpcoming(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventViews(events))
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var in input.CreateEventInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	event, err := h.events.CreateEvent(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(event))
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := h.events.GetEventDetail(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDetailView(detail))
}

func (h *Handler) listOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.events.ListOrganizationEvents(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryViews(summaries))
}

func (h *Handler) listOrganizationReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.events.ListOrganizationReviews(r.Context(), principalFrom(r.Context()), r.URL.Query().Get("eventId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppraisalViews(reviews))
}

func (h *Handler) sentimentReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.appraisals.SentimentReport(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSentimentViews(report))
}

// Registrations

type registerRequest struct {
	EventID string `json:"eventId"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	reg, err := h.registrations.Register(r.Context(), principalFrom(r.Context()), req.EventID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationView(reg))
}

func (h *Handler) listRegistrations(w http.ResponseWriter, r *http.Request) {
	items, err := h.registrations.ListMine(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegisteredViews(items))
}

func (h *Handler) ticket(w http.ResponseWriter, r *http.Request) {
	png, err := h.registrations.Ticket(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.registrations.Notifications(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	locale := h.locale(r)
	out := make([]notificationView, len(items))
	for i, n := range items {
		out[i] = notificationView{
			ID:         n.ID,
			EventID:    n.EventID,
			EventTitle: n.EventTitle,
			EventDate:  n.EventDate,
			Type:       string(n.Type),
			Message:    h.tr.T(locale, "notification_"+string(n.Type), map[string]any{"Title": n.EventTitle}),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Appraisals

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	h.submitAppraisal(w, r, entities.KindReview)
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	h.submitAppraisal(w, r, entities.KindFeedback)
}

// submitAppraisal answers 200 for reviews, which upsert, and 201 for
// feedback, which is only ever inserted.
func (h *Handler) submitAppraisal(w http.ResponseWriter, r *http.Request, kind entities.AppraisalKind) {
	var in input.AppraisalInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, _, err := h.appraisals.Submit(r.Context(), principalFrom(r.Context()), kind, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if kind == entities.KindFeedback {
		status = http.StatusCreated
	}
	writeJSON(w, status, toAppraisalView(a))
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	h.listAppraisals(w, r, entities.KindReview)
}

func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	h.listAppraisals(w, r, entities.KindFeedback)
}

func (h *Handler) listAppraisals(w http.ResponseWriter, r *http.Request, kind entities.AppraisalKind) {
	items, err := h.appraisals.List(r.Context(), kind, r.URL.Query().Get("eventId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppraisalViews(items))
}

// Assistant

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		query = q.Get("q")
	}
	if strings.TrimSpace(query) == "" {
		h.writeError(w, r, domain.NewValidationError("query", "query is required"))
		return
	}
	results, err := h.assistant.Search(r.Context(), principalFrom(r.Context()), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoredViews(results))
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	history := make([]entities.ChatTurn, len(req.History))
	for i, t := range req.History {
		history[i] = entities.ChatTurn{Role: t.Role, Content: t.Content}
	}
	answer, err := h.assistant.Chat(r.Context(), principalFrom(r.Context()), req.Message, history)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: answer})
}

// Accounts

type sessionResponse struct {
	User    userView `json:"user"`
	Token   string   `json:"token"`
	Message string   `json:"message,omitempty"`
}

// startSession issues a token for user and sets the session cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *entities.User) (string, bool) {
	token, expires, err := h.sessions.Issue(user)
	if err != nil {
		h.writeError(w, r, err)
		return "", false
	}
	setSessionCookie(w, r, token, expires)
	return token, true
}

func (h *Handler) registerParticipant(w http.ResponseWriter, r *http.Request) {
	var in input.ParticipantSignup
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.accounts.RegisterParticipant(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	token, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:    toUserView(user),
		Token:   token,
		Message: h.tr.T(h.locale(r), "register_participant_success", nil),
	})
}

type organizationSignupResponse struct {
	User         userView         `json:"user"`
	Organization organizationView `json:"organization"`
	Message      string           `json:"message"`
}

func (h *Handler) registerOrganization(w http.ResponseWriter, r *http.Request) {
	var in input.OrganizationSignup
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, org, err := h.accounts.RegisterOrganization(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, organizationSignupResponse{
		User:         toUserView(user),
		Organization: organizationView{ID: org.ID, Name: org.Name, Website: org.Website, Description: org.Description},
		Message:      h.tr.T(h.locale(r), "register_organization_success", nil),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in input.Credentials
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.accounts.Authenticate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	token, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: toUserView(user), Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, messageBody{Message: h.tr.T(h.locale(r), "auth_logged_out", nil)})
}
