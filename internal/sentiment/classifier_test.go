package sentiment

import (
	"context"
	"strings"
	"testing"

	"github.com/spacesedan/reviewradar/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestNormalizeClampsScore(t *testing.T) {
	cases := []struct {
		name  string
		input rawResult
		want  models.SentimentResult
	}{
		{
			"score above range",
			rawResult{Sentiment: "positive", Score: 150, Confidence: floatPtr(0.9)},
			models.SentimentResult{Label: models.SentimentPositive, Score: 100, Confidence: 0.9},
		},
		{
			"score below range",
			rawResult{Sentiment: "negative", Score: -10, Confidence: floatPtr(0.8)},
			models.SentimentResult{Label: models.SentimentNegative, Score: 0, Confidence: 0.8},
		},
		{
			"confidence above range",
			rawResult{Sentiment: "positive", Score: 80, Confidence: floatPtr(2.0)},
			models.SentimentResult{Label: models.SentimentPositive, Score: 80, Confidence: 1},
		},
		{
			"confidence below range",
			rawResult{Sentiment: "negative", Score: 20, Confidence: floatPtr(-0.3)},
			models.SentimentResult{Label: models.SentimentNegative, Score: 20, Confidence: 0},
		},
		{
			"missing confidence defaults",
			rawResult{Sentiment: "neutral", Score: 50},
			models.SentimentResult{Label: models.SentimentNeutral, Score: 50, Confidence: 0.5},
		},
		{
			"fractional score rounds",
			rawResult{Sentiment: "positive", Score: 72.6, Confidence: floatPtr(0.7)},
			models.SentimentResult{Label: models.SentimentPositive, Score: 73, Confidence: 0.7},
		},
		{
			"unknown label coerces to neutral",
			rawResult{Sentiment: "ecstatic", Score: 95, Confidence: floatPtr(0.99)},
			models.SentimentResult{Label: models.SentimentNeutral, Score: 95, Confidence: 0.99},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize(tc.input); got != tc.want {
				t.Errorf("normalize: got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCleanResponse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"sentiment":"positive"}`, `{"sentiment":"positive"}`},
		{"json fence", "```json\n{\"sentiment\":\"positive\"}\n```", `{"sentiment":"positive"}`},
		{"bare fence", "```\n{\"sentiment\":\"neutral\"}\n```", `{"sentiment":"neutral"}`},
		{"padded", "  {\"score\": 50}  ", `{"score": 50}`},
		{"not an object", "sorry, I cannot help with that", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanResponse(tc.input); got != tc.want {
				t.Errorf("cleanResponse: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOpenAIClassifierWithoutClientFallsBack(t *testing.T) {
	classifier := NewOpenAIClassifier(nil)

	got := classifier.Classify(context.Background(), "some review text")
	if got != models.FallbackSentiment() {
		t.Errorf("Classify without client: got %+v, want fallback", got)
	}
}

func TestVaderClassifier(t *testing.T) {
	classifier := NewVaderClassifier()
	ctx := context.Background()

	positive := classifier.Classify(ctx, "I love this app, it is wonderful and amazing!")
	if positive.Label != models.SentimentPositive {
		t.Errorf("positive text: got label %q", positive.Label)
	}
	if positive.Score <= 50 {
		t.Errorf("positive text: got score %d, want > 50", positive.Score)
	}

	negative := classifier.Classify(ctx, "Terrible, horrible app. It crashes constantly and I hate it.")
	if negative.Label != models.SentimentNegative {
		t.Errorf("negative text: got label %q", negative.Label)
	}
	if negative.Score >= 50 {
		t.Errorf("negative text: got score %d, want < 50", negative.Score)
	}

	for _, result := range []models.SentimentResult{positive, negative} {
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score out of range: %d", result.Score)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("confidence out of range: %f", result.Confidence)
		}
	}
}

func TestRemoveLinks(t *testing.T) {
	got := RemoveLinks("check [this great app](https://example.com) and https://spam.example please")

	if strings.Contains(got, "http") {
		t.Errorf("RemoveLinks left a URL behind: %q", got)
	}
	if !strings.Contains(got, "this great app") {
		t.Errorf("RemoveLinks dropped the link text: %q", got)
	}
}
