package brevo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDoer struct {
	calls  int
	err    error
	url    string
	header http.Header
	body   []byte
}

func (f *fakeDoer) DoWithRetry(ctx context.Context, method, url string, header http.Header, body []byte) (*http.Response, error) {
	f.calls++
	f.url, f.header, f.body = url, header, body
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(strings.NewReader(`{}`))}, nil
}

func TestSendEmail(t *testing.T) {
	d := &fakeDoer{}
	c := newClient("key-1", "noreply@lms.test", "LMS", "http://brevo.local/send", d, zap.NewNop().Sugar())

	require.NoError(t, c.SendEmail(context.Background(), "ana@example.com", "Your OTP", "<b>12345</b>"))

	assert.Equal(t, "http://brevo.local/send", d.url)
	assert.Equal(t, "key-1", d.header.Get("api-key"))

	var req sendEmailReq
	require.NoError(t, json.Unmarshal(d.body, &req))
	assert.Equal(t, "noreply@lms.test", req.Sender.Email)
	assert.Equal(t, "LMS", req.Sender.Name)
	require.Len(t, req.To, 1)
	assert.Equal(t, "ana@example.com", req.To[0].Email)
	assert.Equal(t, "Your OTP", req.Subject)
	assert.Equal(t, "<b>12345</b>", req.HTMLContent)
}

func TestSendEmail_NotConfigured(t *testing.T) {
	d := &fakeDoer{}
	c := newClient("", "", "", "http://brevo.local/send", d, zap.NewNop().Sugar())

	assert.False(t, c.IsConfigured())
	assert.ErrorIs(t, c.SendEmail(context.Background(), "a@b.c", "s", "h"), ErrNotConfigured)
	assert.Zero(t, d.calls)
}

func TestSendEmail_MissingFields(t *testing.T) {
	d := &fakeDoer{}
	c := newClient("k", "f@lms.test", "", "http://brevo.local/send", d, zap.NewNop().Sugar())

	assert.Error(t, c.SendEmail(context.Background(), "", "s", "h"))
	assert.Zero(t, d.calls)
}

func TestSendEmail_BreakerOpensAfterFailures(t *testing.T) {
	d := &fakeDoer{err: errors.New("connection refused")}
	c := newClient("k", "f@lms.test", "", "http://brevo.local/send", d, zap.NewNop().Sugar())

	for i := 0; i < 3; i++ {
		assert.Error(t, c.SendEmail(context.Background(), "a@b.c", "s", "h"))
	}
	err := c.SendEmail(context.Background(), "a@b.c", "s", "h")

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, d.calls)
}
