package models

import "strings"

// Scam categories produced by keyword classification, dataset matches and
// the LLM classifier. Free-form phishing subtypes ("phishing_<subtype>")
// also flow through this field.
const (
	ScamTypeBanking     = "banking"
	ScamTypeJob         = "job"
	ScamTypePrize       = "prize"
	ScamTypeTechSupport = "tech_support"
	ScamTypeInvestment  = "investment"
	ScamTypeRomance     = "romance"
	ScamTypeUnknown     = "unknown"
)

// DetectionResult is the immutable verdict for one inbound message
type DetectionResult struct {
	IsScam          bool     `json:"is_scam"`
	Confidence      float64  `json:"confidence"`
	ScamType        string   `json:"scam_type,omitempty"`
	Reasoning       []string `json:"reasoning"`
	DetectionTimeMS int64    `json:"detection_time_ms"`
}

// ReasoningTrace joins the per-tier contributions into one audit string
func (r DetectionResult) ReasoningTrace() string {
	if len(r.Reasoning) == 0 {
		return "No scam detected"
	}
	return strings.Join(r.Reasoning, " | ")
}
