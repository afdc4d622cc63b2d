package entities

import "time"

// SentimentBreakdown counts reviews per bucket.
type SentimentBreakdown struct {
	Positive int
	Neutral  int
	Negative int
}

// SentimentLabel is the bucket of a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// KeywordStat summarizes one frequent comment token.
type KeywordStat struct {
	Word             string
	Count            int
	Sentiment        SentimentBreakdown
	AverageSentiment float64
}

// EventSentiment is the per-event satisfaction summary shown to organizers.
type EventSentiment struct {
	EventID            string
	Title              string
	Date               time.Time
	TotalReviews       int
	AverageRating      float64
	TotalRegistrations int
	Sentiments         SentimentBreakdown
	CommentSentiment   float64
	Keywords           []KeywordStat

	// CommentSentimentLabel buckets CommentSentiment on its own.
	CommentSentimentLabel SentimentLabel
}

// NotificationType identifies a reminder window.
type NotificationType string

const (
	NotifyDayBefore  NotificationType = "day_before"
	NotifyHourBefore NotificationType = "hour_before"
)

// Notification reminds a participant of an upcoming registered event.
type Notification struct {
	ID         string
	EventID    string
	EventTitle string
	EventDate  time.Time
	Type       NotificationType
}

// ScoredEvent is an upcoming event ranked for a natural-language query.
type ScoredEvent struct {
	Event
	Score  float64
	Reason string
}

// ChatTurn is one message of a chat conversation.
type ChatTurn struct {
	Role    string
	Content string
}

// EventDetail is the public view of one event.
type EventDetail struct {
	Event         Event
	Phase         Phase
	AverageRating float64
	ReviewCount   int
	IsRegistered  bool
	CanReview     bool
}

// RegisteredEvent is a registration as listed on a participant dashboard.
type RegisteredEvent struct {
	Registration Registration
	Phase        Phase
}

// EventSummary is an event with its phase, as listed on organizer dashboards.
type EventSummary struct {
	Event Event
	Phase Phase
}
