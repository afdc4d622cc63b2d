package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"community/internal/domain"
	"community/internal/domain/entities"
	"community/internal/infrastructure/logging"
	"community/internal/ports/input"
	"community/internal/ports/output"
)

var _ input.AssistantUseCase = (*AssistantService)(nil)

const (
	// ReasonNoMatch annotates events the model did not score.
	ReasonNoMatch = "No specific match for your search"
	// ReasonUnavailable annotates every event when ranking failed.
	ReasonUnavailable = "Search ranking unavailable"

	// ChatApology replaces the answer when the model call fails.
	ChatApology = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."
	// ChatEmpty replaces an empty model answer.
	ChatEmpty = "I apologize, but I couldn't generate a response."

	maxChatHistory = 10
)

type AssistantService struct {
	eventRepo output.EventRepository
	userRepo  output.UserRepository
	llm       output.LLM
	now       func() time.Time
}

func NewAssistantService(eventRepo output.EventRepository, userRepo output.UserRepository, llm output.LLM) *AssistantService {
	return &AssistantService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		llm:       llm,
		now:       time.Now,
	}
}

type searchContextEvent struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Location      string `json:"location"`
	Category      string `json:"category"`
	Organization  string `json:"organization"`
	Registrations int    `json:"registrations"`
}

type searchRanking struct {
	Events []struct {
		ID     string  `json:"id"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	} `json:"events"`
}

const searchPromptTemplate = `You are an AI search assistant. Analyze the events based on the user's query and return ALL events sorted by relevance.

Instructions:
1. Return ALL events, even if they don't perfectly match the query
2. Score each event between 0 and 1 based on relevance to the search terms, date/time, location and category if specified, and the user's interests: %s
3. Return a JSON object of the form {"events": [{"id": "event_id", "score": 0.95, "reason": "Brief explanation of relevance"}]}`

// Search ranks upcoming events against query. Ranking failures are logged
// and every event is returned unscored.
func (s *AssistantService) Search(ctx context.Context, p *entities.Principal, query string) ([]entities.ScoredEvent, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query", "query is required")
	}

	events, err := s.eventRepo.List(ctx, entities.EventFilter{From: s.now()})
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if len(events) == 0 {
		return []entities.ScoredEvent{}, nil
	}

	ranking, err := s.rank(ctx, p, query, events)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("ai search ranking failed")
		out := make([]entities.ScoredEvent, len(events))
		for i := range events {
			out[i] = entities.ScoredEvent{Event: events[i], Reason: ReasonUnavailable}
		}
		return out, nil
	}

	out := make([]entities.ScoredEvent, len(events))
	for i := range events {
		out[i] = entities.ScoredEvent{Event: events[i], Reason: ReasonNoMatch}
		for _, r := range ranking.Events {
			if r.ID != events[i].ID {
				continue
			}
			out[i].Score = r.Score
			if r.Reason != "" {
				out[i].Reason = r.Reason
			}
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *AssistantService) rank(ctx context.Context, p *entities.Principal, query string, events []entities.Event) (*searchRanking, error) {
	interests := "not specified"
	if user, err := s.userRepo.FindByID(ctx, p.UserID); err == nil && len(user.Interests) > 0 {
		interests = strings.Join(user.Interests, ", ")
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	items := make([]searchContextEvent, len(events))
	for i, e := range events {
		items[i] = searchContextEvent{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			Date:          e.Date.UTC().Format(time.RFC3339),
			Location:      e.Location,
			Category:      e.Category,
			Organization:  e.OrganizationName,
			Registrations: e.RegistrationCount,
		}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal search context: %w", err)
	}

	content, err := s.llm.Complete(ctx, &output.CompletionRequest{
		SystemPrompt: fmt.Sprintf(searchPromptTemplate, interests),
		Messages: []entities.ChatTurn{{
			Role:    "user",
			Content: fmt.Sprintf("Query: %q\nEvents: %s", query, payload),
		}},
		Temperature: 0.5,
		MaxTokens:   1024,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var ranking searchRanking
	if err := json.Unmarshal([]byte(content), &ranking); err != nil {
		return nil, fmt.Errorf("parse ranking: %w", err)
	}
	return &ranking, nil
}

const chatPromptTemplate = `You are a helpful assistant for a community events platform. Help users with:
- Finding and discovering events
- Understanding how to use the platform
- Getting information about community activities
- Answering questions about event registration and management

Be friendly and conversational. The user's name is %s.

If users want to search for specific events, you can guide them to:
1. Use the search bar at the top of the page
2. Browse the events page
3. Check their dashboard for recommended events`

// Chat answers message with the last turns of history as context.
func (s *AssistantService) Chat(ctx context.Context, p *entities.Principal, message string, history []entities.ChatTurn) (string, error) {
	if p == nil {
		return "", domain.ErrUnauthorized
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.NewValidationError("message", "message is required")
	}

	turns := recentTurns(history, maxChatHistory)
	turns = append(turns, entities.ChatTurn{Role: "user", Content: message})

	answer, err := s.llm.Complete(ctx, &output.CompletionRequest{
		SystemPrompt: fmt.Sprintf(chatPromptTemplate, p.Name),
		Messages:     turns,
		Temperature:  0.7,
		MaxTokens:    1024,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("chat completion failed")
		return ChatApology, nil
	}
	if strings.TrimSpace(answer) == "" {
		return ChatEmpty, nil
	}
	return answer, nil
}

// recentTurns keeps the last n user and assistant turns of history.
func recentTurns(history []entities.ChatTurn, n int) []entities.ChatTurn {
	kept := make([]entities.ChatTurn, 0, len(history))
	for _, t := range history {
		if (t.Role == "user" || t.Role == "assistant") && strings.TrimSpace(t.Content) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}
