package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/reviewradar/internal/models"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

// VaderClassifier scores text locally with VADER. It backs the
// fallback-only mode used when no OpenAI credentials are configured.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (c *VaderClassifier) Classify(_ context.Context, text string) models.SentimentResult {
	plainText := ConvertMarkdownToText(text)

	compound := c.analyzer.PolarityScores(plainText).Compound

	var label string
	if compound >= 0.20 {
		label = "positive"
	} else if compound <= -0.20 {
		label = "negative"
	} else {
		label = "neutral"
	}

	// Rescale VADER's [-1,1] compound onto the [0,100] score axis.
	score := (compound + 1) * 50
	confidence := math.Abs(compound)

	return normalize(rawResult{
		Sentiment:  label,
		Score:      score,
		Confidence: &confidence,
	})
}
