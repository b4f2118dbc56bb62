package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/spacesedan/reviewradar/internal/models"
)

const (
	DEFAULT_CATALOG_URL   = "http://localhost:3000/api"
	catalogRequestTimeout = 30 * time.Second
	catalogRetries        = 3
	catalogInitialBackoff = 1 * time.Second
	catalogMaxBackoff     = 8 * time.Second
	REVIEW_SORT_NEWEST    = "NEWEST"
	DEFAULT_REVIEW_COUNT  = 100
)

// ErrAppNotFound marks a catalog miss, distinguishable from transport or
// server failures.
var ErrAppNotFound = errors.New("app not found in catalog")

var (
	playStoreInstance *PlayStoreClient
	playStoreOnce     sync.Once
)

// PlayStoreClient talks to the Google Play scraper service that fronts
// the store catalog (search, app details, reviews).
type PlayStoreClient struct {
	Client  *http.Client
	BaseURL string
}

func GetPlayStoreClient() *PlayStoreClient {
	playStoreOnce.Do(func() {
		baseURL := os.Getenv("PLAY_CATALOG_URL")
		if baseURL == "" {
			baseURL = DEFAULT_CATALOG_URL
		}
		playStoreInstance = &PlayStoreClient{
			Client:  &http.Client{Timeout: catalogRequestTimeout},
			BaseURL: baseURL,
		}
		slog.Info("[PlayStoreClient] Catalog client initialized",
			slog.String("base_url", baseURL))
	})
	return playStoreInstance
}

// NewPlayStoreClient builds a client against an explicit base URL.
// Used by tests and anywhere the singleton is not wanted.
func NewPlayStoreClient(baseURL string) *PlayStoreClient {
	return &PlayStoreClient{
		Client:  &http.Client{Timeout: catalogRequestTimeout},
		BaseURL: baseURL,
	}
}

// Search returns up to n catalog hits for a free-text term.
func (p *PlayStoreClient) Search(ctx context.Context, term string, n int) ([]models.PlayStoreApp, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("num", fmt.Sprintf("%d", n))

	var response models.PlayStoreSearchResponse
	if err := p.getJSON(ctx, "/apps/?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// Details fetches the app detail page for a package id.
func (p *PlayStoreClient) Details(ctx context.Context, appID string) (*models.PlayStoreApp, error) {
	var app models.PlayStoreApp
	if err := p.getJSON(ctx, "/apps/"+url.PathEscape(appID)+"/", &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Reviews fetches a single page of at most count reviews in the given
// sort order. The catalog decides the actual page size cap.
func (p *PlayStoreClient) Reviews(ctx context.Context, appID string, count int, sort string) ([]models.RawReview, error) {
	if count <= 0 {
		count = DEFAULT_REVIEW_COUNT
	}
	if sort == "" {
		sort = REVIEW_SORT_NEWEST
	}
	q := url.Values{}
	q.Set("num", fmt.Sprintf("%d", count))
	q.Set("sort", sort)

	var response models.PlayStoreReviewsResponse
	if err := p.getJSON(ctx, "/apps/"+url.PathEscape(appID)+"/reviews/?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	if len(response.Results) > count {
		response.Results = response.Results[:count]
	}
	return response.Results, nil
}

// getJSON performs a GET against the catalog with bounded retries on
// transient failures. 404 maps to ErrAppNotFound; other non-200 answers
// surface as upstream errors.
func (p *PlayStoreClient) getJSON(ctx context.Context, path string, output interface{}) error {
	endpoint := p.BaseURL + path
	backoff := catalogInitialBackoff

	var lastErr error
	for attempt := 1; attempt <= catalogRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		res, err := p.Client.Do(req)
		if err != nil {
			slog.Warn("[PlayStoreClient] Request failed, will retry",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
		} else {
			switch res.StatusCode {
			case http.StatusOK:
				body, err := io.ReadAll(res.Body)
				res.Body.Close()
				if err != nil {
					slog.Error("[PlayStoreClient] Failed to read response body",
						slog.String("error", err.Error()))
					return err
				}
				if err := json.Unmarshal(body, output); err != nil {
					slog.Error("[PlayStoreClient] Failed to parse JSON response",
						slog.String("path", path),
						slog.String("error", err.Error()))
					return fmt.Errorf("catalog returned malformed JSON: %w", err)
				}
				return nil
			case http.StatusNotFound:
				io.Copy(io.Discard, res.Body)
				res.Body.Close()
				return ErrAppNotFound
			case http.StatusTooManyRequests, http.StatusInternalServerError,
				http.StatusBadGateway, http.StatusServiceUnavailable:
				io.Copy(io.Discard, res.Body)
				res.Body.Close()
				slog.Warn("[PlayStoreClient] Transient catalog failure, retrying...",
					slog.Int("status", res.StatusCode),
					slog.Int("attempt", attempt),
					slog.Duration("backoff", backoff))
				lastErr = fmt.Errorf("catalog returned status %d", res.StatusCode)
			default:
				io.Copy(io.Discard, res.Body)
				res.Body.Close()
				return fmt.Errorf("catalog returned unexpected status %d", res.StatusCode)
			}
		}

		if attempt < catalogRetries {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > catalogMaxBackoff {
				backoff = catalogMaxBackoff
			}
		}
	}

	slog.Error("[PlayStoreClient] Failed after max retries",
		slog.String("path", path))
	return fmt.Errorf("catalog request failed after %d attempts: %w", catalogRetries, lastErr)
}
