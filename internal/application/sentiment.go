package application

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"community/internal/domain/entities"
	"community/internal/ports/output"
)

const (
	ratingWeight     = 0.6
	commentWeight    = 0.4
	bucketThreshold  = 0.2
	minKeywordLength = 3
	topKeywords      = 5
)

var (
	nonWord = regexp.MustCompile(`[^\w\s]`)

	stopWords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
		"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "event": {},
		"was": {}, "very": {}, "really": {}, "great": {}, "good": {}, "bad": {},
		"nice": {}, "awesome": {}, "terrible": {},
	}
)

// ratingSentiment maps a star rating to +1, 0 or -1.
func ratingSentiment(rating int) float64 {
	switch {
	case rating >= 4:
		return 1
	case rating <= 2:
		return -1
	default:
		return 0
	}
}

// combinedSentiment weighs the rating and comment scores of one review.
func combinedSentiment(rating int, comment float64) float64 {
	return ratingWeight*ratingSentiment(rating) + commentWeight*comment
}

type bucket int

const (
	neutral bucket = iota
	positive
	negative
)

func bucketOf(score float64) bucket {
	switch {
	case score > bucketThreshold:
		return positive
	case score < -bucketThreshold:
		return negative
	default:
		return neutral
	}
}

func (b bucket) label() entities.SentimentLabel {
	switch b {
	case positive:
		return entities.SentimentPositive
	case negative:
		return entities.SentimentNegative
	default:
		return entities.SentimentNeutral
	}
}

func addTo(sb *entities.SentimentBreakdown, bk bucket) {
	switch bk {
	case positive:
		sb.Positive++
	case negative:
		sb.Negative++
	default:
		sb.Neutral++
	}
}

// tokenize lowercases text, strips punctuation, and drops stopwords and
// short tokens. Any Unicode space separates words.
func tokenize(text string) []string {
	spaced := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, strings.ToLower(text))
	cleaned := nonWord.ReplaceAllString(spaced, "")
	fields := strings.Fields(cleaned)
	out := fields[:0]
	for _, w := range fields {
		if len(w) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func summarize(event *entities.Event, reviews []entities.Appraisal, scorer output.SentimentScorer) entities.EventSentiment {
	report := entities.EventSentiment{
		EventID:            event.ID,
		Title:              event.Title,
		Date:               event.Date,
		TotalReviews:       len(reviews),
		TotalRegistrations: event.RegistrationCount,
	}

	ratings := make([]int, len(reviews))
	var commentSum float64
	var commented int
	keywords := make(map[string]*entities.KeywordStat)
	var order []string

	for i, r := range reviews {
		ratings[i] = r.Rating

		var comment float64
		if strings.TrimSpace(r.Comment) != "" {
			comment = scorer.Comparative(r.Comment)
			commentSum += comment
			commented++

			bk := bucketOf(comment)
			for _, w := range tokenize(r.Comment) {
				stat, ok := keywords[w]
				if !ok {
					stat = &entities.KeywordStat{Word: w}
					keywords[w] = stat
					order = append(order, w)
				}
				stat.Count++
				addTo(&stat.Sentiment, bk)
				stat.AverageSentiment += (comment - stat.AverageSentiment) / float64(stat.Count)
			}
		}
		addTo(&report.Sentiments, bucketOf(combinedSentiment(r.Rating, comment)))
	}

	report.AverageRating = entities.AverageRating(ratings)
	if commented > 0 {
		report.CommentSentiment = commentSum / float64(commented)
	}
	report.CommentSentimentLabel = bucketOf(report.CommentSentiment).label()

	ranked := make([]entities.KeywordStat, len(order))
	for i, w := range order {
		ranked[i] = *keywords[w]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topKeywords {
		ranked = ranked[:topKeywords]
	}
	report.Keywords = ranked
	return report
}
