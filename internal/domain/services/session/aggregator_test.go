package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

type fakeStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeStore) Close() error { return nil }

func newTestAggregator(store Store) *Aggregator {
	return NewAggregator(store, 30*time.Minute, logger.Nop())
}

func TestLoadNewConversation(t *testing.T) {
	a := newTestAggregator(newFakeStore())

	state := a.Load(context.Background(), "conv-1", "whatsapp")
	require.NotNil(t, state)
	assert.Equal(t, 0, state.TurnCount)
	assert.Equal(t, "whatsapp", state.Metadata.Source)
	assert.False(t, state.ReportSent)
}

func TestSaveAndReload(t *testing.T) {
	store := newFakeStore()
	a := newTestAggregator(store)
	ctx := context.Background()

	state := a.Load(ctx, "conv-1", "api")
	state.AppendTurn(models.SenderUser, "pay to scammer@ybl")
	state.TurnCount = 3
	state.Extracted.Merge(models.ExtractedIntelligence{UPIIDs: []string{"scammer@ybl"}})
	a.Save(ctx, "conv-1", state)

	assert.Equal(t, 30*time.Minute, store.lastTTL)

	reloaded := a.Load(ctx, "conv-1", "api")
	assert.Equal(t, 3, reloaded.TurnCount)
	assert.Equal(t, []string{"scammer@ybl"}, reloaded.Extracted.UPIIDs)
	require.Len(t, reloaded.History, 1)
	assert.Equal(t, "pay to scammer@ybl", reloaded.History[0].Content)
}

func TestLoadStoreErrorStartsFresh(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	a := newTestAggregator(store)

	state := a.Load(context.Background(), "conv-1", "api")
	require.NotNil(t, state)
	assert.Equal(t, 0, state.TurnCount)
}

func TestLoadCorruptStateStartsFresh(t *testing.T) {
	store := newFakeStore()
	store.data[keyPrefix+"conv-1"] = []byte("{not json")
	a := newTestAggregator(store)

	state := a.Load(context.Background(), "conv-1", "api")
	require.NotNil(t, state)
	assert.Equal(t, 0, state.TurnCount)
}

func TestMarkReportSentOnce(t *testing.T) {
	a := newTestAggregator(newFakeStore())
	state := models.NewSessionState("api")

	assert.True(t, a.MarkReportSent(state))
	assert.False(t, a.MarkReportSent(state))
	assert.True(t, state.ReportSent)
}

func TestLockSerializesSameConversation(t *testing.T) {
	a := newTestAggregator(newFakeStore())

	unlock := a.Lock("conv-1")
	acquired := make(chan struct{})
	go func() {
		u := a.Lock("conv-1")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired after unlock")
	}
}

func TestLockIndependentConversations(t *testing.T) {
	a := newTestAggregator(newFakeStore())

	unlock1 := a.Lock("conv-1")
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := a.Lock("conv-2")
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent conversations must not block each other")
	}
}
