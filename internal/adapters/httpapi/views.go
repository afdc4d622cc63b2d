package httpapi

import (
	"time"

	"community/internal/domain/entities"
)

type eventView struct {
	ID                string    `json:"id"`
	OrganizationID    string    `json:"organizationId"`
	Organization      string    `json:"organization,omitempty"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	Location          string    `json:"location"`
	Duration          int       `json:"duration"`
	Capacity          int       `json:"capacity"`
	Price             float64   `json:"price"`
	Category          string    `json:"category,omitempty"`
	RegistrationCount int       `json:"registrationCount"`
	Phase             string    `json:"phase,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toEventView(e *entities.Event) eventView {
	return eventView{
		ID:                e.ID,
		OrganizationID:    e.OrganizationID,
		Organization:      e.OrganizationName,
		Title:             e.Title,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		Duration:          e.DurationMinutes,
		Capacity:          e.Capacity,
		Price:             e.Price,
		Category:          e.Category,
		RegistrationCount: e.RegistrationCount,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toEventViews(events []entities.Event) []eventView {
	out := make([]eventView, len(events))
	for i := range events {
		out[i] = toEventView(&events[i])
	}
	return out
}

func toSummaryViews(summaries []entities.EventSummary) []eventView {
	out := make([]eventView, len(summaries))
	for i := range summaries {
		out[i] = toEventView(&summaries[i].Event)
		out[i].Phase = string(summaries[i].Phase)
	}
	return out
}

type eventDetailView struct {
	eventView
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	IsRegistered  bool    `json:"isRegistered"`
	CanReview     bool    `json:"canReview"`
}

func toEventDetailView(d *entities.EventDetail) eventDetailView {
	v := eventDetailView{
		eventView:     toEventView(&d.Event),
		AverageRating: d.AverageRating,
		ReviewCount:   d.ReviewCount,
		IsRegistered:  d.IsRegistered,
		CanReview:     d.CanReview,
	}
	v.Phase = string(d.Phase)
	return v
}

type registrationView struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	EventID   string     `json:"eventId"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Event     *eventView `json:"event,omitempty"`
}

func toRegistrationView(r *entities.Registration) registrationView {
	v := registrationView{
		ID:        r.ID,
		UserID:    r.UserID,
		EventID:   r.EventID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Event != nil {
		ev := toEventView(r.Event)
		v.Event = &ev
	}
	return v
}

func toRegisteredViews(items []entities.RegisteredEvent) []registrationView {
	out := make([]registrationView, len(items))
	for i := range items {
		out[i] = toRegistrationView(&items[i].Registration)
		if out[i].Event != nil {
			out[i].Event.Phase = string(items[i].Phase)
		}
	}
	return out
}

type authorView struct {
	Name string `json:"name"`
}

type appraisalView struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	EventID   string     `json:"eventId"`
	Rating    int        `json:"rating"`
	Comment   *string    `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	User      authorView `json:"user"`
}

func toAppraisalView(a *entities.Appraisal) appraisalView {
	v := appraisalView{
		ID:        a.ID,
		UserID:    a.UserID,
		EventID:   a.EventID,
		Rating:    a.Rating,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		User:      authorView{Name: a.UserName},
	}
	if a.Comment != "" {
		c := a.Comment
		v.Comment = &c
	}
	return v
}

func toAppraisalViews(items []entities.Appraisal) []appraisalView {
	out := make([]appraisalView, len(items))
	for i := range items {
		out[i] = toAppraisalView(&items[i])
	}
	return out
}

type breakdownView struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type keywordView struct {
	Word             string        `json:"word"`
	Count            int           `json:"count"`
	Sentiment        breakdownView `json:"sentiment"`
	AverageSentiment float64       `json:"averageSentiment"`
}

type sentimentView struct {
	EventID               string        `json:"eventId"`
	Title                 string        `json:"title"`
	Date                  time.Time     `json:"date"`
	TotalReviews          int           `json:"totalReviews"`
	AverageRating         float64       `json:"averageRating"`
	TotalRegistrations    int           `json:"totalRegistrations"`
	Sentiments            breakdownView `json:"sentiments"`
	CommentSentiment      float64       `json:"commentSentiment"`
	CommentSentimentLabel string        `json:"commentSentimentLabel"`
	Keywords              []keywordView `json:"keywords"`
}

func toBreakdownView(b entities.SentimentBreakdown) breakdownView {
	return breakdownView{Positive: b.Positive, Neutral: b.Neutral, Negative: b.Negative}
}

func toSentimentViews(items []entities.EventSentiment) []sentimentView {
	out := make([]sentimentView, len(items))
	for i, s := range items {
		keywords := make([]keywordView, len(s.Keywords))
		for j, k := range s.Keywords {
			keywords[j] = keywordView{
				Word:             k.Word,
				Count:            k.Count,
				Sentiment:        toBreakdownView(k.Sentiment),
				AverageSentiment: k.AverageSentiment,
			}
		}
		out[i] = sentimentView{
			EventID:               s.EventID,
			Title:                 s.Title,
			Date:                  s.Date,
			TotalReviews:          s.TotalReviews,
			AverageRating:         s.AverageRating,
			TotalRegistrations:    s.TotalRegistrations,
			Sentiments:            toBreakdownView(s.Sentiments),
			CommentSentiment:      s.CommentSentiment,
			CommentSentimentLabel: string(s.CommentSentimentLabel),
			Keywords:              keywords,
		}
	}
	return out
}

type notificationView struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	EventTitle string    `json:"eventTitle"`
	EventDate  time.Time `json:"eventDate"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
}

type scoredEventView struct {
	eventView
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func toScoredViews(items []entities.ScoredEvent) []scoredEventView {
	out := make([]scoredEventView, len(items))
	for i := range items {
		out[i] = scoredEventView{
			eventView: toEventView(&items[i].Event),
			Score:     items[i].Score,
			Reason:    items[i].Reason,
		}
	}
	return out
}

type userView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Interests      []string `json:"interests,omitempty"`
}

func toUserView(u *entities.User) userView {
	return userView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		Interests:      u.Interests,
	}
}

type organizationView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}
