package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds SMS gateway configuration. An empty GatewayURL disables the
// channel entirely; NewSender then returns a NoopSender.
type Config struct {
	GatewayURL string        `env:"SMS_GATEWAY_URL"`
	APIKey     string        `env:"SMS_API_KEY"`
	SenderID   string        `env:"SMS_SENDER_ID" envDefault:"MentorHub"`
	Timeout    time.Duration `env:"SMS_TIMEOUT" envDefault:"10s"`
}

// gatewayClient posts messages to an HTTP SMS gateway as JSON.
type gatewayClient struct {
	config Config
	client *http.Client
}

// NewSender creates an SMS sender from config. When the gateway URL is empty
// the SMS channel is considered disabled and a NoopSender is returned.
func NewSender(cfg Config) Sender {
	if cfg.GatewayURL == "" {
		return NoopSender{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &gatewayClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type gatewayRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

func (c *gatewayClient) SendSMS(ctx context.Context, to, body string) error {
	normalized, err := Normalize(to)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(gatewayRequest{
		To:   normalized,
		From: c.config.SenderID,
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendSMS, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendSMS, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendSMS, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Small cap keeps provider error bodies out of log storage.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: gateway returned %d: %s", ErrFailedToSendSMS, resp.StatusCode, msg)
	}
	return nil
}
