package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kodwo/sikawallet/internal/logger"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

// Client sends transactional email through the Postmark HTTP API
type Client struct {
	APIURL      string
	ServerToken string
	From        string

	client *http.Client
	logger logger.Logger
}

func NewClient(serverToken string, from string, l logger.Logger) *Client {
	return &Client{
		APIURL:      defaultAPIURL,
		ServerToken: serverToken,
		From:        from,
		client:      &http.Client{},
		logger:      l,
	}
}

type message struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody"`
	MessageStream string `json:"MessageStream"`
}

func (c *Client) Send(ctx context.Context, to string, subject string, textBody string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := json.Marshal(message{
		From:          c.From,
		To:            to,
		Subject:       subject,
		TextBody:      textBody,
		MessageStream: "outbound",
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.ServerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Mail API rejected message", "status_code", resp.StatusCode, "to", to)
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return nil
}

// NoOp discards every message, used when no mail credentials are configured
type NoOp struct{}

func (NoOp) Send(ctx context.Context, to string, subject string, textBody string) error {
	return nil
}
