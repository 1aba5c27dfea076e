package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

// Analyzer processes one scammer message end to end
type Analyzer interface {
	HandleMessage(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error)
}

// AnalysisHandler handles POST /api/v1/scam-analysis
type AnalysisHandler struct {
	analyzer Analyzer
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analyzer Analyzer, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   log.WithComponent("analysis-handler"),
	}
}

// rawRequest tolerates the field aliases upstream platforms send.
// Every alias is normalized here; nothing below the handler ever sees
// them.
type rawRequest struct {
	ConversationID  string          `json:"conversation_id"`
	ConversationIDC string          `json:"conversationId"`
	SessionID       string          `json:"session_id"`
	SessionIDC      string          `json:"sessionId"`
	Message         json.RawMessage `json:"message"`
	Content         string          `json:"content"`
	Text            string          `json:"text"`
	Messages        json.RawMessage `json:"messages"`
	Source          string          `json:"source"`
}

// Analyze handles POST /api/v1/scam-analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var raw rawRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := normalize(&raw)
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message content is required")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	response, err := h.analyzer.HandleMessage(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("analysis failed")
		h.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// normalize maps every accepted alias onto the canonical request
func normalize(raw *rawRequest) *models.AnalysisRequest {
	req := &models.AnalysisRequest{Source: raw.Source}

	for _, id := range []string{raw.ConversationID, raw.ConversationIDC, raw.SessionID, raw.SessionIDC} {
		if id != "" {
			req.ConversationID = id
			break
		}
	}

	req.Message = extractContent(raw.Message)
	if req.Message == "" {
		req.Message = raw.Content
	}
	if req.Message == "" {
		req.Message = raw.Text
	}
	if req.Message == "" && len(raw.Messages) > 0 {
		var items []json.RawMessage
		if err := json.Unmarshal(raw.Messages, &items); err == nil && len(items) > 0 {
			req.Message = extractContent(items[len(items)-1])
		}
	}
	return req
}

// extractContent accepts a bare string or an object carrying the text
// under content/text/message
func extractContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Content string `json:"content"`
		Text    string `json:"text"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Content != "" {
			return obj.Content
		}
		if obj.Text != "" {
			return obj.Text
		}
		return obj.Message
	}
	return ""
}

func (h *AnalysisHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
