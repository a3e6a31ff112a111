// Package claude backs the observation suggester with the Anthropic
// Messages API.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/dponte/coletamap/internal/suggest"
)

type ClaudeSuggester struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewClaudeSuggester(apiKey, model string) *ClaudeSuggester {
	return &ClaudeSuggester{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
	}
}

func (s *ClaudeSuggester) SuggestObservations(ctx context.Context, image []byte, mimeType string) (string, error) {
	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: s.model,
		// Observations are a short paragraph; 512 tokens is generous.
		MaxTokens: 512,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(
							anthropic.MessagesContentSourceTypeBase64,
							normalizeMIME(mimeType),
							image,
						),
					),
					anthropic.NewTextMessageContent(suggest.Prompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	text := strings.TrimSpace(resp.GetFirstContentText())
	if text == "" {
		return "", fmt.Errorf("empty suggestion from model")
	}
	return text, nil
}

// normalizeMIME maps unknown types to image/jpeg, the API's most lenient
// media type.
func normalizeMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp", "image/jpeg":
		return mimeType
	default:
		return "image/jpeg"
	}
}
