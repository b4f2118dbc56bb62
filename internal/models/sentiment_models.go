package models

import "strings"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ParseSentimentLabel coerces anything outside the three-member enum to
// neutral rather than letting a creative classifier answer leak through.
func ParseSentimentLabel(raw string) SentimentLabel {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentResult is a normalized classification: score on [0,100]
// (0 maximally negative, 50 neutral, 100 maximally positive) and
// confidence on [0,1].
type SentimentResult struct {
	Label      SentimentLabel `json:"sentiment"`
	Score      int            `json:"score"`
	Confidence float64        `json:"confidence"`
}

// FallbackSentiment is returned whenever the classifier cannot produce a
// valid answer.
func FallbackSentiment() SentimentResult {
	return SentimentResult{
		Label:      SentimentNeutral,
		Score:      50,
		Confidence: 0.5,
	}
}

// AnalyzedReview joins a raw review with its sentiment classification.
// Timestamps are canonical RFC3339 strings; Content is never empty.
type AnalyzedReview struct {
	ID             string         `json:"id"`
	UserName       string         `json:"userName,omitempty"`
	UserImage      string         `json:"userImage,omitempty"`
	Content        string         `json:"content"`
	StarRating     int            `json:"score"`
	ThumbsUpCount  int            `json:"thumbsUpCount"`
	AppVersion     string         `json:"reviewCreatedVersion,omitempty"`
	At             string         `json:"at"`
	ReplyContent   string         `json:"replyContent,omitempty"`
	ReplyAt        string         `json:"replyAt,omitempty"`
	Sentiment      SentimentLabel `json:"sentiment"`
	SentimentScore int            `json:"sentimentScore"`
	Confidence     float64        `json:"confidence"`
}

// SentimentSummary aggregates one analyzed batch. When ReviewCount > 0
// the three percentages always sum to exactly 100: positive and negative
// are rounded independently and neutral absorbs the rounding remainder.
type SentimentSummary struct {
	AverageScore float64 `json:"averageScore"`
	ReviewCount  int     `json:"reviewCount"`
	GeneratedAt  string  `json:"date"`
	PositivePct  int     `json:"positivePercentage"`
	NegativePct  int     `json:"negativePercentage"`
	NeutralPct   int     `json:"neutralPercentage"`
}
