package models

import "time"

// Turn senders. Inbound turns belong to the scammer; outbound to the agent.
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// AnalysisRequest is the canonical inbound request. The HTTP layer maps
// the various field aliases used by upstream callers into this one shape;
// everything below the handlers only ever sees this.
type AnalysisRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Source         string `json:"source,omitempty"`
}

// ConversationTurn is one message in a session's append-only history
type ConversationTurn struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentReply is the agent's side of one exchange
type AgentReply struct {
	Message     string `json:"message"`
	PersonaUsed string `json:"persona_used"`
	Strategy    string `json:"strategy"`
}

// ConversationMetrics summarizes engagement progress for the caller
type ConversationMetrics struct {
	TurnCount                 int     `json:"turn_count"`
	EngagementDurationSeconds int     `json:"engagement_duration_seconds"`
	ExtractionProgress        float64 `json:"extraction_progress"`
}

// ResponseMetadata carries processing details alongside the result
type ResponseMetadata struct {
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	ModelVersion     string `json:"model_version"`
}

// AnalysisResponse is the full per-message result returned to the caller
type AnalysisResponse struct {
	ConversationID        string                `json:"conversation_id"`
	Detection             DetectionResult       `json:"detection"`
	AgentResponse         AgentReply            `json:"agent_response"`
	ExtractedIntelligence ExtractedIntelligence `json:"extracted_intelligence"`
	ConversationMetrics   ConversationMetrics   `json:"conversation_metrics"`
	Metadata              ResponseMetadata      `json:"metadata"`
}
