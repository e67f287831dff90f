// Package ai implements the intent classifier collaborator on top of
// the Gemini API.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"contabot/internal/log"
)

const defaultModel = "gemini-2.0-flash"

// Classifier asks a Gemini model to map free-form user text onto the
// intent wire contract. It returns the raw model text untouched; the
// repair parser downstream owns extraction and failure handling.
type Classifier struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

type Config struct {
	APIKey string
	Model  string
}

func NewClassifier(ctx context.Context, cfg Config, logger *log.Logger) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Classifier{
		client: client,
		model:  model,
		logger: logger.WithComponent(log.ComponentClassifier),
	}, nil
}

// Classify issues one generation call and returns the raw model text.
func (c *Classifier) Classify(ctx context.Context, userText string, categories []string) (string, error) {
	prompt := BuildIntentPrompt(userText, categories)

	temperature := float32(0.1)
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: &temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	c.logger.DebugContext(ctx, "classifier response",
		log.FieldOperation, log.OpClassify,
		"response_len", len(text))
	return text, nil
}
