// Package sentiment scores free text with the VADER lexicon.
package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"community/internal/ports/output"
)

var _ output.SentimentScorer = (*Vader)(nil)

// Vader adapts govader to output.SentimentScorer. The analyzer is read-only
// after construction and safe for concurrent use.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Comparative returns the VADER compound score of text, in [-1, 1].
func (v *Vader) Comparative(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}
