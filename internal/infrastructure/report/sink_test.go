package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

func testReport() *models.IntelligenceReport {
	return &models.IntelligenceReport{
		SessionID:     "conv-1",
		ScamDetected:  true,
		TotalMessages: 12,
		Intelligence: models.ReportedIntelligence{
			UPIIDs:       []string{"scammer@ybl"},
			PhoneNumbers: []string{"+919876543210"},
		},
		AgentNotes: "banking scam detected",
	}
}

func TestSubmitSuccess(t *testing.T) {
	var received models.IntelligenceReport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSink(Config{URL: server.URL, Retries: 2, Backoff: time.Millisecond}, logger.Nop())
	require.NoError(t, sink.Submit(context.Background(), testReport()))

	assert.Equal(t, "conv-1", received.SessionID)
	assert.Equal(t, 12, received.TotalMessages)
	assert.Equal(t, []string{"scammer@ybl"}, received.Intelligence.UPIIDs)
}

func TestSubmitRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSink(Config{URL: server.URL, Retries: 2, Backoff: time.Millisecond}, logger.Nop())
	require.NoError(t, sink.Submit(context.Background(), testReport()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewSink(Config{URL: server.URL, Retries: 2, Backoff: time.Millisecond}, logger.Nop())
	err := sink.Submit(context.Background(), testReport())
	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewSink(Config{URL: server.URL, Retries: 5, Backoff: time.Minute}, logger.Nop())
	err := sink.Submit(ctx, testReport())
	assert.Error(t, err)
}
