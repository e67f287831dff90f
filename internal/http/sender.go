package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"contabot/internal/log"
)

// Sender delivers an outbound text reply to a user on the messaging
// channel.
type Sender interface {
	SendText(ctx context.Context, userID, text string) error
}

// GraphSender sends replies through the WhatsApp Cloud API.
type GraphSender struct {
	httpClient *http.Client
	apiBase    string
	phoneID    string
	token      string
}

func NewGraphSender(apiBase, phoneID, token string) *GraphSender {
	return &GraphSender{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    apiBase,
		phoneID:    phoneID,
		token:      token,
	}
}

func (s *GraphSender) SendText(ctx context.Context, userID, text string) error {
	body, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                userID,
		"type":              "text",
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.apiBase, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// LogSender writes outbound replies to the log instead of a channel;
// used when no channel credentials are configured.
type LogSender struct {
	Logger *log.Logger
}

func (s *LogSender) SendText(ctx context.Context, userID, text string) error {
	logger := s.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger.InfoContext(ctx, "outbound reply",
		log.FieldUserID, userID,
		"text", text)
	return nil
}
