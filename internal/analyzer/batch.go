package analyzer

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/reviewradar/internal/models"
	"github.com/spacesedan/reviewradar/internal/sentiment"
)

const (
	// DefaultConcurrency caps in-flight classification calls per batch.
	DefaultConcurrency = 5

	summaryDateFormat = "Jan 2, 2006"
)

// Run classifies a review batch with bounded concurrency and joins the
// results back in fetch order. Reviews with empty or whitespace-only
// content are dropped before they ever reach the classifier. A single
// classification failure degrades that review to the neutral fallback
// inside the classifier; it never aborts the batch.
func Run(ctx context.Context, reviews []models.RawReview, classifier sentiment.Classifier, limit int) ([]models.AnalyzedReview, models.SentimentSummary) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var kept []models.RawReview
	for _, review := range reviews {
		if strings.TrimSpace(review.Content) == "" {
			continue
		}
		kept = append(kept, review)
	}

	slog.Info("[BatchAnalyzer] Classifying review batch",
		slog.Int("fetched", len(reviews)),
		slog.Int("classifiable", len(kept)),
		slog.Int("concurrency", limit))

	results := make([]models.SentimentResult, len(kept))
	gate := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, review := range kept {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			gate <- struct{}{}
			defer func() { <-gate }()
			results[i] = classifier.Classify(ctx, text)
		}(i, review.Content)
	}
	wg.Wait()

	analyzed := make([]models.AnalyzedReview, 0, len(kept))
	for i, review := range kept {
		analyzed = append(analyzed, joinReview(review, results[i]))
	}

	return analyzed, Summarize(analyzed)
}

func joinReview(raw models.RawReview, result models.SentimentResult) models.AnalyzedReview {
	return models.AnalyzedReview{
		ID:             raw.ReviewID,
		UserName:       raw.UserName,
		UserImage:      raw.UserImage,
		Content:        raw.Content,
		StarRating:     raw.StarRating,
		ThumbsUpCount:  raw.ThumbsUp,
		AppVersion:     raw.AppVersion,
		At:             raw.CreatedAt.Canonical(),
		ReplyContent:   raw.ReplyContent,
		ReplyAt:        raw.ReplyAt.Canonical(),
		Sentiment:      result.Label,
		SentimentScore: result.Score,
		Confidence:     result.Confidence,
	}
}

// Summarize computes the aggregate statistics for an analyzed batch.
// Positive and negative percentages are rounded independently; neutral
// is the remainder, so the three always sum to 100 for non-empty
// batches. An empty batch yields an all-zero summary.
func Summarize(reviews []models.AnalyzedReview) models.SentimentSummary {
	generatedAt := time.Now().Format(summaryDateFormat)

	count := len(reviews)
	if count == 0 {
		return models.SentimentSummary{GeneratedAt: generatedAt}
	}

	var totalScore, positive, negative int
	for _, review := range reviews {
		totalScore += review.SentimentScore
		switch review.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
	}

	positivePct := int(math.Round(float64(positive) / float64(count) * 100))
	negativePct := int(math.Round(float64(negative) / float64(count) * 100))

	return models.SentimentSummary{
		AverageScore: float64(totalScore) / float64(count),
		ReviewCount:  count,
		GeneratedAt:  generatedAt,
		PositivePct:  positivePct,
		NegativePct:  negativePct,
		NeutralPct:   100 - positivePct - negativePct,
	}
}
