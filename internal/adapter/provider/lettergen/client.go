package lettergen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// ClientConfig configures the HTTP letter-generation client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	// InitialBackoff is the first retry delay; it grows exponentially.
	InitialBackoff time.Duration
}

// Client calls an external letter-generation service. 5xx responses and
// network errors are retried with exponential backoff; 4xx are not.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	initial    time.Duration
	log        *slog.Logger
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		initial:    initial,
		log:        logger.With("adapter", "lettergen"),
	}
}

type generateRequest struct {
	LetterType       string  `json:"letter_type"`
	Target           string  `json:"target"`
	CreditorName     string  `json:"creditor_name"`
	OriginalCreditor *string `json:"original_creditor,omitempty"`
	AccountType      string  `json:"account_type"`
	Balance          *string `json:"balance,omitempty"`
	AccountStatus    string  `json:"account_status,omitempty"`
}

type generateResponse struct {
	Content string `json:"content"`
}

// Generate requests a letter for item, letterType and target.
func (c *Client) Generate(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error) {
	payload := generateRequest{
		LetterType:       string(letterType),
		Target:           string(target),
		CreditorName:     item.CreditorName,
		OriginalCreditor: item.OriginalCreditor,
		AccountType:      string(item.AccountType),
		AccountStatus:    item.AccountStatus,
	}
	if item.Balance != nil {
		b := item.Balance.StringFixed(2)
		payload.Balance = &b
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("lettergen: encode request: %w", err)
	}

	var content string
	attempt := 0
	op := func() error {
		attempt++
		var opErr error
		content, opErr = c.do(ctx, body)
		return opErr
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initial
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "lettergen retry",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	}

	err = backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx), notify)
	if err != nil {
		c.log.ErrorContext(ctx, "lettergen request failed",
			slog.String("letter_type", string(letterType)),
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("lettergen: %w", err)
	}

	c.log.DebugContext(ctx, "lettergen response",
		slog.String("letter_type", string(letterType)),
		slog.Int("attempts", attempt),
		slog.Int("length", len(content)),
	)
	return content, nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/letters", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode json: %w", err))
	}
	if strings.TrimSpace(out.Content) == "" {
		return "", backoff.Permanent(errors.New("empty letter content"))
	}
	return out.Content, nil
}
