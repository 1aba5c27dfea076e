package models

import "time"

// SessionMetadata records where and when a conversation started
type SessionMetadata struct {
	Source    string    `json:"source"`
	StartedAt time.Time `json:"session_start"`
}

// SessionState is the full multi-turn record for one conversation id.
// It lives in the session store for the TTL window and is mutated only
// by the session aggregator, under that conversation's critical section.
type SessionState struct {
	History    []ConversationTurn    `json:"history"`
	TurnCount  int                   `json:"turn_count"`
	Metadata   SessionMetadata       `json:"metadata"`
	Extracted  ExtractedIntelligence `json:"extracted"`
	ReportSent bool                  `json:"report_sent"`
}

// NewSessionState creates the state for a conversation's first message
func NewSessionState(source string) *SessionState {
	if source == "" {
		source = "api"
	}
	return &SessionState{
		Metadata: SessionMetadata{
			Source:    source,
			StartedAt: time.Now().UTC(),
		},
	}
}

// AppendTurn adds a message to the append-only history
func (s *SessionState) AppendTurn(sender, content string) {
	s.History = append(s.History, ConversationTurn{
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// LatestInbound returns the content of the most recent scammer-authored
// turn, or "" when there is none.
func (s *SessionState) LatestInbound() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Sender == SenderUser {
			return s.History[i].Content
		}
	}
	return ""
}
