package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/models"
)

// CachedClassifier is a read-through Valkey cache keyed by text digest.
// Cache failures fall through to the wrapped classifier, never to the
// caller.
type CachedClassifier struct {
	inner Classifier
	cache *clients.ValkeyClient
}

func NewCachedClassifier(inner Classifier, cache *clients.ValkeyClient) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache}
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) models.SentimentResult {
	digest := textDigest(text)

	if payload, ok := c.cache.GetCachedSentiment(ctx, digest); ok {
		var result models.SentimentResult
		if err := json.Unmarshal([]byte(payload), &result); err == nil {
			return result
		}
		slog.Warn("[SentimentClassifier] Discarding malformed cached result",
			slog.String("digest", digest))
	}

	result := c.inner.Classify(ctx, text)

	if payload, err := json.Marshal(result); err == nil {
		c.cache.CacheSentiment(ctx, digest, string(payload))
	}
	return result
}

func textDigest(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
