package models

// ReportedIntelligence is the intelligence section of a final report,
// in the wire shape the evaluation sink expects.
type ReportedIntelligence struct {
	BankAccounts       []BankAccount `json:"bankAccounts"`
	UPIIDs             []string      `json:"upiIds"`
	PhishingLinks      []ScoredURL   `json:"phishingLinks"`
	PhoneNumbers       []string      `json:"phoneNumbers"`
	SuspiciousKeywords []string      `json:"suspiciousKeywords"`
}

// IntelligenceReport is the one-shot summary dispatched when a session's
// exit conditions first fire.
type IntelligenceReport struct {
	SessionID     string               `json:"sessionId"`
	ScamDetected  bool                 `json:"scamDetected"`
	TotalMessages int                  `json:"totalMessagesExchanged"`
	Intelligence  ReportedIntelligence `json:"extractedIntelligence"`
	AgentNotes    string               `json:"agentNotes"`
}
