package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techupnext/internal/config"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *SendGrid {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	mailer := NewSendGrid(config.MailConfig{
		APIKey:    "sg-test-key",
		FromEmail: "digest@techupnext.example",
	}, logger)
	mailer.baseURL = server.URL
	return mailer
}

func TestSend(t *testing.T) {
	var gotReq mailRequest
	var gotAuth, gotPath string

	mailer := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusAccepted)
	})

	err := mailer.Send(context.Background(), "reader@example.com", "Your Tech-UpNext Digest", "<html>digest</html>")

	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-test-key", gotAuth)
	assert.Equal(t, "/v3/mail/send", gotPath)

	require.Len(t, gotReq.Personalizations, 1)
	require.Len(t, gotReq.Personalizations[0].To, 1)
	assert.Equal(t, "reader@example.com", gotReq.Personalizations[0].To[0].Email)
	assert.Equal(t, "digest@techupnext.example", gotReq.From.Email)
	assert.Equal(t, "Your Tech-UpNext Digest", gotReq.Subject)
	require.Len(t, gotReq.Content, 1)
	assert.Equal(t, "text/html", gotReq.Content[0].Type)
	assert.Equal(t, "<html>digest</html>", gotReq.Content[0].Value)
}

func TestSend_APIError(t *testing.T) {
	mailer := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"invalid api key"}]}`, http.StatusUnauthorized)
	})

	err := mailer.Send(context.Background(), "reader@example.com", "subject", "<html></html>")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}
