package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

const keyPrefix = "honeypot:session:"

// Aggregator owns the lifecycle of conversation state: load, merge
// new intelligence, persist. Callers must hold the conversation lock
// around a load-modify-save cycle.
type Aggregator struct {
	store  Store
	ttl    time.Duration
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAggregator creates a session aggregator over the given store
func NewAggregator(store Store, ttl time.Duration, log *logger.Logger) *Aggregator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Aggregator{
		store:  store,
		ttl:    ttl,
		logger: log.WithComponent("session-aggregator"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-conversation mutex and returns its unlock
// function. Locks are never reclaimed; conversation cardinality is
// bounded by session TTL in practice.
func (a *Aggregator) Lock(conversationID string) func() {
	a.mu.Lock()
	lock, ok := a.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[conversationID] = lock
	}
	a.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Load fetches session state, returning fresh state when the
// conversation is new or the store misbehaves. A store error degrades
// the conversation to stateless rather than failing the request.
func (a *Aggregator) Load(ctx context.Context, conversationID, source string) *models.SessionState {
	data, err := a.store.Get(ctx, keyPrefix+conversationID)
	if err != nil {
		a.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("session load failed, starting fresh")
		return models.NewSessionState(source)
	}
	if data == nil {
		return models.NewSessionState(source)
	}

	var state models.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		a.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("corrupt session state, starting fresh")
		return models.NewSessionState(source)
	}
	return &state
}

// Save persists session state with the configured TTL
func (a *Aggregator) Save(ctx context.Context, conversationID string, state *models.SessionState) {
	data, err := json.Marshal(state)
	if err != nil {
		a.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("session marshal failed")
		return
	}
	if err := a.store.SetWithTTL(ctx, keyPrefix+conversationID, data, a.ttl); err != nil {
		a.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("session save failed")
	}
}

// MarkReportSent flips the report flag exactly once. Returns false if
// a report was already sent for this session.
func (a *Aggregator) MarkReportSent(state *models.SessionState) bool {
	if state.ReportSent {
		return false
	}
	state.ReportSent = true
	return true
}
