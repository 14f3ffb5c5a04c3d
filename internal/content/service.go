// Package content drafts outbound message copy with the Gemini API. It is an
// admin-facing authoring aid; nothing in the automated pipeline depends on it.
package content

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

const draftModel = "gemini-2.0-flash"

// Service generates draft copy. A nil client means the feature is disabled.
type Service struct {
	client *genai.Client
	log    *logger.Logger
}

// NewService builds the draft generator, or a disabled service when no API
// key is configured.
func NewService(ctx context.Context, apiKey string, log *logger.Logger) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return &Service{log: log}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Service{client: client, log: log}, nil
}

// Enabled reports whether draft generation is available.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Draft produces copy for one sequence step. channel is "email" or "sms";
// the returned text is a draft for a human to edit, not something sent
// automatically.
func (s *Service) Draft(ctx context.Context, channel, audience, goal string) (string, error) {
	if !s.Enabled() {
		return "", apperr.New(apperr.KindConflict, "content drafting is not configured")
	}

	prompt := fmt.Sprintf(
		"Write a short %s message for a lead nurture sequence.\nAudience: %s\nGoal: %s\nKeep it under 120 words, friendly and direct, with a single call to action. Return only the message body.",
		channel, audience, goal)

	resp, err := s.client.Models.GenerateContent(ctx, draftModel, genai.Text(prompt), nil)
	if err != nil {
		s.log.Error("draft generation failed", "error", err.Error())
		return "", apperr.Wrap(apperr.KindInternal, "draft generation failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperr.New(apperr.KindInternal, "model returned no content")
	}
	return text, nil
}
