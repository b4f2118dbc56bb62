package sentiment

import (
	"context"
	"log/slog"
	"math"

	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/models"
)

// Classifier answers with a normalized sentiment result for a non-empty
// piece of text. Implementations never return an error: any failure of
// the underlying engine degrades to the neutral fallback internally.
type Classifier interface {
	Classify(ctx context.Context, text string) models.SentimentResult
}

// rawResult mirrors the JSON shape classification engines answer with.
// Confidence is a pointer so a missing field is distinguishable from 0.
type rawResult struct {
	Sentiment  string   `json:"sentiment"`
	Score      float64  `json:"score"`
	Confidence *float64 `json:"confidence"`
}

// normalize enforces the output contract regardless of what the engine
// produced: score rounded and clamped to [0,100], confidence clamped to
// [0,1] (0.5 when absent), label coerced into the enum.
func normalize(raw rawResult) models.SentimentResult {
	score := int(math.Round(raw.Score))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
	}

	return models.SentimentResult{
		Label:      models.ParseSentimentLabel(raw.Sentiment),
		Score:      score,
		Confidence: confidence,
	}
}

// FromEnvironment picks the classifier for this process: OpenAI when an
// API key is configured, the local VADER analyzer otherwise. When a
// Valkey cache is connected the classifier is wrapped in a read-through
// cache.
func FromEnvironment() Classifier {
	var classifier Classifier
	if oc := clients.GetOpenAIClient(); oc != nil {
		classifier = NewOpenAIClassifier(oc)
	} else {
		slog.Info("[SentimentClassifier] Using local VADER classifier")
		classifier = NewVaderClassifier()
	}

	if vc := clients.GetValkeyClient(); vc != nil {
		classifier = NewCachedClassifier(classifier, vc)
	}
	return classifier
}
