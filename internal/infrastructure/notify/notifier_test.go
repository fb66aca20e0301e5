package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotification() domain.Notification {
	return domain.Notification{
		ID:        "4b1f7c3e-0000-4000-8000-000000000001",
		Title:     "Omiri: Deals Found!",
		Body:      "Found 3 deals for your list: milk, eggs, bread...",
		DeepLink:  "omiri://shopping_list_matches",
		DealCount: 3,
		Preview:   "milk, eggs, bread",
	}
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	notifier := NewLogNotifier(logger)

	err := notifier.Notify(context.Background(), sampleNotification())

	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "Found 3 deals for your list: milk, eggs, bread...", entry.Message)
	assert.Equal(t, 3, entry.Data["deal_count"])
	assert.Equal(t, "omiri://shopping_list_matches", entry.Data["deep_link"])
}

func TestNewLogNotifier_DefaultsToStandardLogger(t *testing.T) {
	notifier := NewLogNotifier(nil)
	assert.NotNil(t, notifier.logger)
}

func TestWebhookNotifier_Success(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, 0)

	err := notifier.Notify(context.Background(), sampleNotification())

	require.NoError(t, err)
	assert.Equal(t, "Omiri: Deals Found!", received.Title)
	assert.Equal(t, 3, received.DealCount)
	assert.Equal(t, "milk, eggs, bread", received.Preview)
	assert.Equal(t, "omiri://shopping_list_matches", received.DeepLink)
}

func TestWebhookNotifier_PayloadFieldNames(t *testing.T) {
	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	}))
	defer server.Close()

	require.NoError(t, NewWebhookNotifier(server.URL, 0).Notify(context.Background(), sampleNotification()))

	for _, key := range []string{"id", "title", "body", "deepLink", "dealCount", "preview"} {
		assert.Contains(t, raw, key)
	}
}

func TestWebhookNotifier_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, 0).Notify(context.Background(), sampleNotification())

	assert.ErrorIs(t, err, domain.ErrNotificationFailed)
	assert.Contains(t, err.Error(), "status 500")
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewWebhookNotifier(url, 0).Notify(context.Background(), sampleNotification())

	assert.ErrorIs(t, err, domain.ErrNotificationFailed)
}
