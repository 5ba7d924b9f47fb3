package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"techupnext/internal/config"
)

const defaultBaseURL = "https://api.sendgrid.com"

// SendGrid delivers digest mail through the SendGrid v3 REST API.
type SendGrid struct {
	baseURL   string
	apiKey    string
	fromEmail string
	client    *http.Client
	logger    *slog.Logger
}

func NewSendGrid(cfg config.MailConfig, logger *slog.Logger) *SendGrid {
	return &SendGrid{
		baseURL:   defaultBaseURL,
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger.With("component", "mailer"),
	}
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers one HTML document to one recipient. A failure here is
// per-recipient; callers continue their batch.
func (s *SendGrid) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(mailRequest{
		Personalizations: []personalization{
			{To: []address{{Email: to}}},
		},
		From:    address{Email: s.fromEmail},
		Subject: subject,
		Content: []content{
			{Type: "text/html", Value: htmlBody},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid error %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	s.logger.Debug("mail sent", "to", to)
	return nil
}
