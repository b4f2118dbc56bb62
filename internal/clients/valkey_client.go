package clients

import (
	"context"
	"crypto/tls"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const (
	VALKEY_SENTIMENT_PREFIX = "sentiment:"
	sentimentCacheTTL       = 86400 // seconds
)

// InitValkey connects the optional classification cache. When
// VALKEY_INIT_ADDRESS is unset the cache stays disabled and every
// lookup falls through to the classifier.
func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
		if valkeyAddr == "" {
			slog.Info("[ValkeyClient] VALKEY_INIT_ADDRESS not set, classification cache disabled")
			return
		}

		client, err := valkey.NewClient(valkeyOptions())
		if err != nil {
			slog.Error("[ValkeyClient] Failed to create Valkey client, cache disabled",
				slog.String("error", err.Error()))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			slog.Error("[ValkeyClient] Failed to ping Valkey, cache disabled",
				slog.String("error", err.Error()))
			client.Close()
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func valkeyOptions() valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// GetValkeyClient returns the cache client or nil when the cache is
// disabled.
func GetValkeyClient() *ValkeyClient {
	return valkeyInstance
}

// GetCachedSentiment looks up a classification result by text digest.
// A miss or any cache failure returns ("", false).
func (vc *ValkeyClient) GetCachedSentiment(ctx context.Context, digest string) (string, bool) {
	res := vc.Client.Do(ctx, vc.Client.B().Get().Key(VALKEY_SENTIMENT_PREFIX+digest).Build())
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false
		}
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return "", false
	}

	payload, err := res.ToString()
	if err != nil || payload == "" {
		return "", false
	}
	return payload, true
}

// CacheSentiment stores a serialized classification result with a TTL.
// Failures are logged and dropped; the cache is best-effort only.
func (vc *ValkeyClient) CacheSentiment(ctx context.Context, digest string, payload string) {
	res := vc.DoWithRetry(ctx,
		vc.Client.B().Set().Key(VALKEY_SENTIMENT_PREFIX+digest).Value(payload).ExSeconds(sentimentCacheTTL).Build(), 2)
	if err := res.Error(); err != nil {
		slog.Warn("[ValkeyClient] Failed to cache sentiment result",
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
	}
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := valkey.NewClient(valkeyOptions())
	if err != nil {
		slog.Error("[ValkeyClient] Failed to recreate Valkey client",
			slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		slog.Error("[ValkeyClient] Failed to ping Valkey after recreate",
			slog.String("error", err.Error()))
		client.Close()
		return
	}

	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
	vc.Client = client
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
