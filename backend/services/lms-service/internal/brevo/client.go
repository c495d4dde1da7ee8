package brevo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/shared/httpclient"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultAPIURL = "https://api.brevo.com/v3/smtp/email"

var ErrNotConfigured = errors.New("brevo client not configured")

type doer interface {
	DoWithRetry(ctx context.Context, method, url string, header http.Header, body []byte) (*http.Response, error)
}

// Client sends transactional mail through the Brevo API. Repeated failures
// open the breaker so requests fail fast while Brevo is down.
type Client struct {
	apiKey    string
	fromEmail string
	fromName  string
	url       string
	http      doer
	cb        *gobreaker.CircuitBreaker
}

func NewClient(apiKey, fromEmail, fromName string, log *zap.SugaredLogger) *Client {
	return newClient(apiKey, fromEmail, fromName, defaultAPIURL,
		httpclient.NewClient(httpclient.ClientConfig{Timeout: 10 * time.Second, RetryMaxElapsed: 20 * time.Second}), log)
}

func newClient(apiKey, fromEmail, fromName, url string, h doer, log *zap.SugaredLogger) *Client {
	st := gobreaker.Settings{
		Name:        "brevo",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Infow("circuit breaker state", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Client{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		url:       url,
		http:      h,
		cb:        gobreaker.NewCircuitBreaker(st),
	}
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.fromEmail != ""
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendEmailReq struct {
	Sender      address   `json:"sender"`
	To          []address `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

func (c *Client) SendEmail(ctx context.Context, to, subject, html string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if to == "" || subject == "" || html == "" {
		return errors.New("recipient, subject and content are required")
	}
	body, err := json.Marshal(sendEmailReq{
		Sender:      address{Email: c.fromEmail, Name: c.fromName},
		To:          []address{{Email: to}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}
	header := http.Header{}
	header.Set("api-key", c.apiKey)
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")

	_, err = c.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.DoWithRetry(ctx, http.MethodPost, c.url, header, body)
		if err != nil {
			return nil, err
		}
		resp.Body.Close()
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("brevo send email: %w", err)
	}
	return nil
}
