package sentiment

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/reviewradar/internal/clients"
	"github.com/spacesedan/reviewradar/internal/models"
)

const sentimentSystemPrompt = `You are a sentiment analysis expert. Analyze the sentiment of the app review and provide a sentiment classification (positive, negative, or neutral), a sentiment score from 0 to 100 (where 0 is completely negative and 100 is completely positive), and a confidence score between 0 and 1. Respond with JSON in this format: { "sentiment": string, "score": number, "confidence": number }`

// OpenAIClassifier asks a chat completion model for a structured
// sentiment verdict. Every failure path returns the neutral fallback;
// classification is best-effort annotation and must never fail a batch.
type OpenAIClassifier struct {
	client *clients.OpenAIClient
}

func NewOpenAIClassifier(client *clients.OpenAIClient) *OpenAIClassifier {
	return &OpenAIClassifier{client: client}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) models.SentimentResult {
	if c.client == nil {
		return models.FallbackSentiment()
	}

	resp, err := c.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		slog.Warn("[SentimentClassifier] OpenAI request failed, using fallback",
			slog.String("error", err.Error()))
		return models.FallbackSentiment()
	}
	if len(resp.Choices) == 0 {
		slog.Warn("[SentimentClassifier] OpenAI response had no choices, using fallback")
		return models.FallbackSentiment()
	}

	cleaned := cleanResponse(resp.Choices[0].Message.Content)
	if cleaned == "" {
		slog.Warn("[SentimentClassifier] OpenAI response was not a JSON object, using fallback")
		return models.FallbackSentiment()
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		slog.Warn("[SentimentClassifier] Failed to unmarshal OpenAI response, using fallback",
			slog.String("error", err.Error()),
			slog.String("cleaned_response", cleaned))
		return models.FallbackSentiment()
	}
	if raw.Sentiment == "" {
		slog.Warn("[SentimentClassifier] OpenAI response missing sentiment field, using fallback")
		return models.FallbackSentiment()
	}

	return normalize(raw)
}

// cleanResponse strips Markdown code fences the model sometimes wraps
// around its JSON. Returns "" when the remainder does not look like a
// JSON object.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if !(strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}")) {
		return ""
	}
	return cleaned
}
