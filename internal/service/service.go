package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/reviewradar/internal/analyzer"
	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/history"
	"github.com/spacesedan/reviewradar/internal/models"
	"github.com/spacesedan/reviewradar/internal/sentiment"
)

const suggestionLimit = 5

// Catalog is the app-store boundary the service talks to.
type Catalog interface {
	Search(ctx context.Context, term string, n int) ([]models.PlayStoreApp, error)
	Details(ctx context.Context, appID string) (*models.PlayStoreApp, error)
	Reviews(ctx context.Context, appID string, count int, sort string) ([]models.RawReview, error)
}

// AnalysisService composes catalog fetching, batch classification and
// the history ledger. It is the single write path into history.
type AnalysisService struct {
	catalog     Catalog
	classifier  sentiment.Classifier
	store       *history.Store
	reviewCount int
	concurrency int
}

func NewAnalysisService(catalog Catalog, classifier sentiment.Classifier, store *history.Store, reviewCount, concurrency int) *AnalysisService {
	if reviewCount <= 0 {
		reviewCount = clients.DEFAULT_REVIEW_COUNT
	}
	if concurrency <= 0 {
		concurrency = analyzer.DefaultConcurrency
	}
	return &AnalysisService{
		catalog:     catalog,
		classifier:  classifier,
		store:       store,
		reviewCount: reviewCount,
		concurrency: concurrency,
	}
}

// resolve turns a user query into a package id. Queries that already
// look like a package id (contain a dot) are used directly; everything
// else goes through catalog search and takes the top hit.
func (s *AnalysisService) resolve(ctx context.Context, query string) (string, error) {
	if strings.Contains(query, ".") {
		return query, nil
	}

	results, err := s.catalog.Search(ctx, query, 1)
	if err != nil {
		if errors.Is(err, clients.ErrAppNotFound) {
			return "", fmt.Errorf("%w: no app found with name: %s", ErrNotFound, query)
		}
		return "", fmt.Errorf("%w: catalog search failed: %v", ErrUpstream, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: no app found with name: %s", ErrNotFound, query)
	}
	return results[0].AppID, nil
}

// Analyze runs the full pipeline for one app query and records the
// outcome in history.
func (s *AnalysisService) Analyze(ctx context.Context, query string) (*models.AnalysisResult, error) {
	start := time.Now()

	appID, err := s.resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	details, err := s.catalog.Details(ctx, appID)
	if err != nil {
		if errors.Is(err, clients.ErrAppNotFound) {
			return nil, fmt.Errorf("%w: app not found: %s", ErrNotFound, appID)
		}
		return nil, fmt.Errorf("%w: failed to fetch app details: %v", ErrUpstream, err)
	}

	rawReviews, err := s.catalog.Reviews(ctx, appID, s.reviewCount, clients.REVIEW_SORT_NEWEST)
	if err != nil {
		if errors.Is(err, clients.ErrAppNotFound) {
			return nil, fmt.Errorf("%w: app not found: %s", ErrNotFound, appID)
		}
		return nil, fmt.Errorf("%w: failed to fetch reviews: %v", ErrUpstream, err)
	}

	analyzed, summary := analyzer.Run(ctx, rawReviews, s.classifier, s.concurrency)

	result := &models.AnalysisResult{
		AppInfo:   appInfoFromDetails(details),
		Sentiment: summary,
		Reviews:   analyzed,
	}

	id := s.store.Append(models.HistoryRecord{
		AppName:        result.AppInfo.Name,
		SentimentScore: summary.AverageScore,
		GeneratedAt:    summary.GeneratedAt,
		AppIcon:        result.AppInfo.Icon,
	}, *result)

	slog.Info("[AnalysisService] Analysis complete",
		slog.String("app", result.AppInfo.PackageName),
		slog.Int("history_id", id),
		slog.Int("review_count", summary.ReviewCount),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// History returns all ledger entries in insertion order.
func (s *AnalysisService) History() []models.HistoryRecord {
	return s.store.List()
}

// ByID returns the stored full result for a past analysis. Results are
// returned verbatim, never recomputed.
func (s *AnalysisService) ByID(id int) (*models.AnalysisResult, error) {
	result, ok := s.store.GetResult(id)
	if !ok {
		return nil, fmt.Errorf("%w: analysis not found for id: %d", ErrNotFound, id)
	}
	return &result, nil
}

// ClearHistory empties the ledger. Previously assigned ids stay burned.
func (s *AnalysisService) ClearHistory() {
	s.store.Clear()
	slog.Info("[AnalysisService] Analysis history cleared")
}

// ClassifyText classifies a standalone piece of text for the ad-hoc
// sentiment endpoint.
func (s *AnalysisService) ClassifyText(ctx context.Context, text string) models.SentimentResult {
	return s.classifier.Classify(ctx, text)
}

// Suggest returns catalog search hits for typeahead suggestions.
func (s *AnalysisService) Suggest(ctx context.Context, term string) ([]models.AppSuggestion, error) {
	results, err := s.catalog.Search(ctx, term, suggestionLimit)
	if err != nil && !errors.Is(err, clients.ErrAppNotFound) {
		return nil, fmt.Errorf("%w: catalog search failed: %v", ErrUpstream, err)
	}

	suggestions := make([]models.AppSuggestion, 0, len(results))
	for _, app := range results {
		suggestions = append(suggestions, models.AppSuggestion{
			AppID:     app.AppID,
			Name:      app.Title,
			Developer: app.Developer,
			Icon:      app.Icon,
		})
	}
	return suggestions, nil
}

func appInfoFromDetails(details *models.PlayStoreApp) models.AppInfo {
	rating := details.ScoreText
	if rating == "" {
		rating = strconv.FormatFloat(details.Score, 'f', -1, 64)
	}
	return models.AppInfo{
		Name:        details.Title,
		PackageName: details.AppID,
		Developer:   details.Developer,
		Icon:        details.Icon,
		Rating:      rating,
	}
}
