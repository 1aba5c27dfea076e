// Package services hosts the honeypot orchestrator, which drives one
// conversation turn end to end: detection, intelligence extraction,
// persona engagement, session persistence, and final reporting.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/internal/domain/services/detection"
	"honeypot-lab/internal/domain/services/engagement"
	"honeypot-lab/internal/domain/services/extraction"
	"honeypot-lab/internal/domain/services/session"
	"honeypot-lab/pkg/logger"
)

const modelVersion = "v1.0-multi-persona"

const (
	maxReportKeywords = 10
	minKeywordLength  = 4
	reportTimeout     = 15 * time.Second
)

// ReportSink delivers a finished intelligence report to an external
// collector
type ReportSink interface {
	Submit(ctx context.Context, report *models.IntelligenceReport) error
}

// ReportJournal records dispatched reports durably for audit
type ReportJournal interface {
	Record(ctx context.Context, report *models.IntelligenceReport) error
}

// Honeypot is the per-turn orchestrator. Detection and extraction run
// concurrently; everything that touches session state happens inside
// the conversation's critical section.
type Honeypot struct {
	pipeline   *detection.Pipeline
	extractor  *extraction.Engine
	engagement *engagement.Engine
	sessions   *session.Aggregator
	sink       ReportSink
	journal    ReportJournal
	logger     *logger.Logger
}

// NewHoneypot wires the orchestrator. sink and journal may be nil to
// disable report delivery and the audit journal respectively.
func NewHoneypot(
	pipeline *detection.Pipeline,
	extractor *extraction.Engine,
	eng *engagement.Engine,
	sessions *session.Aggregator,
	sink ReportSink,
	journal ReportJournal,
	log *logger.Logger,
) *Honeypot {
	return &Honeypot{
		pipeline:   pipeline,
		extractor:  extractor,
		engagement: eng,
		sessions:   sessions,
		sink:       sink,
		journal:    journal,
		logger:     log.WithComponent("honeypot"),
	}
}

// HandleMessage processes one scammer message and produces the full
// per-turn analysis and agent reply
func (h *Honeypot) HandleMessage(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error) {
	start := time.Now()
	log := h.logger.WithConversation(req.ConversationID)

	unlock := h.sessions.Lock(req.ConversationID)
	defer unlock()

	state := h.sessions.Load(ctx, req.ConversationID, req.Source)
	state.AppendTurn(models.SenderUser, req.Message)

	// Detection and extraction are independent; run them in parallel
	var (
		wg        sync.WaitGroup
		verdict   models.DetectionResult
		extracted models.ExtractedIntelligence
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		verdict = h.pipeline.Detect(ctx, req.Message)
	}()
	go func() {
		defer wg.Done()
		extracted = h.extractor.Extract(ctx, req.Message)
	}()
	wg.Wait()

	state.Extracted.Merge(extracted)
	state.TurnCount++

	reply := h.engagement.Respond(ctx, req.Message, verdict.IsScam, verdict.ScamType,
		state.TurnCount, int(state.Extracted.Completeness))
	state.AppendTurn(models.SenderAgent, reply.Message)

	if reply.Strategy == "exit" && verdict.IsScam && h.sessions.MarkReportSent(state) {
		report := h.buildReport(req.ConversationID, state, verdict)
		h.dispatchReport(report, log)
	}

	h.sessions.Save(ctx, req.ConversationID, state)

	log.Info().
		Bool("is_scam", verdict.IsScam).
		Float64("confidence", verdict.Confidence).
		Str("scam_type", verdict.ScamType).
		Str("strategy", reply.Strategy).
		Int("turn", state.TurnCount).
		Float64("completeness", state.Extracted.Completeness).
		Msg("turn processed")

	return &models.AnalysisResponse{
		ConversationID: req.ConversationID,
		Detection:      verdict,
		AgentResponse: models.AgentReply{
			Message:     reply.Message,
			PersonaUsed: reply.Persona,
			Strategy:    reply.Strategy,
		},
		ExtractedIntelligence: state.Extracted,
		ConversationMetrics: models.ConversationMetrics{
			TurnCount:                 state.TurnCount,
			EngagementDurationSeconds: int(time.Since(state.Metadata.StartedAt).Seconds()),
			ExtractionProgress:        state.Extracted.Completeness,
		},
		Metadata: models.ResponseMetadata{
			ProcessingTimeMS: time.Since(start).Milliseconds(),
			ModelVersion:     modelVersion,
		},
	}, nil
}

// buildReport assembles the final intelligence report for a session
func (h *Honeypot) buildReport(conversationID string, state *models.SessionState, verdict models.DetectionResult) *models.IntelligenceReport {
	notes := fmt.Sprintf("%s scam detected. Engaged for %d turns. Extraction: %.0f%%. Reasoning: %s",
		verdict.ScamType, state.TurnCount, state.Extracted.Completeness, verdict.ReasoningTrace())

	return &models.IntelligenceReport{
		SessionID:     conversationID,
		ScamDetected:  true,
		TotalMessages: state.TurnCount * 2,
		Intelligence: models.ReportedIntelligence{
			BankAccounts:       state.Extracted.BankAccounts,
			UPIIDs:             state.Extracted.UPIIDs,
			PhishingLinks:      state.Extracted.URLs,
			PhoneNumbers:       state.Extracted.PhoneNumbers,
			SuspiciousKeywords: harvestKeywords(state.History),
		},
		AgentNotes: notes,
	}
}

// dispatchReport delivers the report without blocking the turn.
// Delivery failures are logged, never surfaced to the caller.
func (h *Honeypot) dispatchReport(report *models.IntelligenceReport, log *logger.Logger) {
	if h.sink == nil && h.journal == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if h.sink != nil {
			if err := h.sink.Submit(ctx, report); err != nil {
				log.Error().Err(err).Str("session_id", report.SessionID).Msg("report delivery failed")
			} else {
				log.Info().Str("session_id", report.SessionID).Msg("intelligence report delivered")
			}
		}
		if h.journal != nil {
			if err := h.journal.Record(ctx, report); err != nil {
				log.Warn().Err(err).Str("session_id", report.SessionID).Msg("report journal write failed")
			}
		}
	}()
}

// harvestKeywords collects distinctive lowercase words from the
// scammer's side of the conversation, capped at ten
func harvestKeywords(history []models.ConversationTurn) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, turn := range history {
		if turn.Sender != models.SenderUser {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(turn.Content)) {
			word = strings.Trim(word, ".,!?:;\"'()")
			if len(word) <= minKeywordLength {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			keywords = append(keywords, word)
			if len(keywords) == maxReportKeywords {
				return keywords
			}
		}
	}
	return keywords
}
