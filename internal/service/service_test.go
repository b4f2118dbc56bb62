package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/history"
	"github.com/spacesedan/reviewradar/internal/models"
)

type fakeCatalog struct {
	apps        map[string]models.PlayStoreApp
	reviews     map[string][]models.RawReview
	searchCalls []string
	detailCalls []string
	reviewCalls []string
	reviewsErr  error
}

func (f *fakeCatalog) Search(_ context.Context, term string, n int) ([]models.PlayStoreApp, error) {
	f.searchCalls = append(f.searchCalls, term)
	var hits []models.PlayStoreApp
	for _, app := range f.apps {
		if app.Title == term {
			hits = append(hits, app)
		}
	}
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

func (f *fakeCatalog) Details(_ context.Context, appID string) (*models.PlayStoreApp, error) {
	f.detailCalls = append(f.detailCalls, appID)
	app, ok := f.apps[appID]
	if !ok {
		return nil, clients.ErrAppNotFound
	}
	return &app, nil
}

func (f *fakeCatalog) Reviews(_ context.Context, appID string, count int, sort string) ([]models.RawReview, error) {
	f.reviewCalls = append(f.reviewCalls, appID)
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	if _, ok := f.apps[appID]; !ok {
		return nil, clients.ErrAppNotFound
	}
	return f.reviews[appID], nil
}

type tableClassifier struct {
	answers map[string]models.SentimentResult
}

func (c *tableClassifier) Classify(_ context.Context, text string) models.SentimentResult {
	if result, ok := c.answers[text]; ok {
		return result
	}
	return models.FallbackSentiment()
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		apps: map[string]models.PlayStoreApp{
			"com.test.app": {
				AppID:     "com.test.app",
				Title:     "Test App",
				Developer: "Test Co",
				Icon:      "https://example.com/icon.png",
				ScoreText: "4.2",
			},
		},
		reviews: map[string][]models.RawReview{
			"com.test.app": {
				{ReviewID: "r1", Content: "Great app!", StarRating: 5},
				{ReviewID: "r2", Content: "", StarRating: 1},
				{ReviewID: "r3", Content: "Terrible, crashes constantly", StarRating: 1},
			},
		},
	}
}

func testClassifier() *tableClassifier {
	return &tableClassifier{
		answers: map[string]models.SentimentResult{
			"Great app!":                   {Label: models.SentimentPositive, Score: 90, Confidence: 0.9},
			"Terrible, crashes constantly": {Label: models.SentimentNegative, Score: 10, Confidence: 0.9},
		},
	}
}

func newTestService(catalog *fakeCatalog) *AnalysisService {
	return NewAnalysisService(catalog, testClassifier(), history.NewStore(), 100, 5)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	catalog := testCatalog()
	svc := newTestService(catalog)

	result, err := svc.Analyze(context.Background(), "com.test.app")
	require.NoError(t, err)

	assert.Equal(t, "Test App", result.AppInfo.Name)
	assert.Equal(t, "com.test.app", result.AppInfo.PackageName)
	assert.Equal(t, "4.2", result.AppInfo.Rating)

	require.Len(t, result.Reviews, 2, "empty review must be dropped")
	assert.Equal(t, "r1", result.Reviews[0].ID)
	assert.Equal(t, "r3", result.Reviews[1].ID)

	assert.Equal(t, 2, result.Sentiment.ReviewCount)
	assert.InDelta(t, 50.0, result.Sentiment.AverageScore, 0.0001)
	assert.Equal(t, 50, result.Sentiment.PositivePct)
	assert.Equal(t, 50, result.Sentiment.NegativePct)
	assert.Equal(t, 0, result.Sentiment.NeutralPct)

	// The analysis was recorded in history with the summary values.
	records := svc.History()
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "Test App", records[0].AppName)
	assert.InDelta(t, 50.0, records[0].SentimentScore, 0.0001)
	assert.Equal(t, "https://example.com/icon.png", records[0].AppIcon)

	// Lookup by id returns the stored result verbatim.
	stored, err := svc.ByID(records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, result, stored)
}

func TestResolveUsesDirectLookupForPackageIDs(t *testing.T) {
	catalog := testCatalog()
	svc := newTestService(catalog)

	_, err := svc.Analyze(context.Background(), "com.test.app")
	require.NoError(t, err)

	assert.Empty(t, catalog.searchCalls, "package-id query must not trigger a search")
	assert.Equal(t, []string{"com.test.app"}, catalog.detailCalls)
}

func TestResolveSearchesForAppNames(t *testing.T) {
	catalog := testCatalog()
	svc := newTestService(catalog)

	result, err := svc.Analyze(context.Background(), "Test App")
	require.NoError(t, err)

	assert.Equal(t, []string{"Test App"}, catalog.searchCalls)
	assert.Equal(t, "com.test.app", result.AppInfo.PackageName)
}

func TestAnalyzeUnknownAppNameIsNotFound(t *testing.T) {
	svc := newTestService(testCatalog())

	_, err := svc.Analyze(context.Background(), "No Such App")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "No Such App")
}

func TestAnalyzeUnknownPackageIDIsNotFound(t *testing.T) {
	svc := newTestService(testCatalog())

	_, err := svc.Analyze(context.Background(), "com.missing.app")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "com.missing.app")
}

func TestAnalyzeUpstreamFailureSurfaces(t *testing.T) {
	catalog := testCatalog()
	catalog.reviewsErr = errors.New("catalog returned status 500")
	svc := newTestService(catalog)

	_, err := svc.Analyze(context.Background(), "com.test.app")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestByIDUnknownIsNotFound(t *testing.T) {
	svc := newTestService(testCatalog())

	_, err := svc.ByID(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearHistoryDoesNotResetIDs(t *testing.T) {
	svc := newTestService(testCatalog())
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "com.test.app")
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, "com.test.app")
	require.NoError(t, err)

	svc.ClearHistory()
	assert.Empty(t, svc.History())

	_, err = svc.Analyze(ctx, "com.test.app")
	require.NoError(t, err)

	records := svc.History()
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].ID)
}

func TestSuggest(t *testing.T) {
	catalog := testCatalog()
	svc := newTestService(catalog)

	suggestions, err := svc.Suggest(context.Background(), "Test App")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "com.test.app", suggestions[0].AppID)
	assert.Equal(t, "Test App", suggestions[0].Name)
}

func TestClassifyText(t *testing.T) {
	svc := newTestService(testCatalog())

	got := svc.ClassifyText(context.Background(), "Great app!")
	assert.Equal(t, models.SentimentPositive, got.Label)
	assert.Equal(t, 90, got.Score)
}
