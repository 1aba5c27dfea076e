package detection

import (
	"regexp"
	"strings"

	"honeypot-lab/internal/domain/models"
)

// keywordGroup is one category of scam vocabulary with its per-hit weight
type keywordGroup struct {
	weight   float64
	keywords []string
}

var keywordGroups = []keywordGroup{
	{20, []string{"urgent", "immediately", "today", "now", "hurry", "limited time", "at risk", "blocked", "suspended"}},
	{25, []string{"bank account", "upi", "transfer", "payment", "money", "₹", "rupees", "wallet", "credit", "debit"}},
	{30, []string{"government", "police", "tax", "rbi", "official", "department", "customs", "court", "legal"}},
	{35, []string{"won", "prize", "congratulations", "selected", "winner", "lottery", "gift", "reward", "lucky"}},
	{25, []string{"hiring", "job", "salary", "work from home", "part time", "recruit", "offer letter", "interview"}},
	{25, []string{"virus", "hacked", "compromised", "security alert", "antivirus", "remote access", "teamviewer"}},
}

var (
	upiLikePattern      = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]+`)
	accountRunPattern   = regexp.MustCompile(`\b\d{10,18}\b`)
	indianMobilePattern = regexp.MustCompile(`(?:\+91)?[6-9]\d{9}`)
)

// RuleScorer is the first detection tier: keyword and structural pattern
// scoring with no external calls. Pure function of the input text.
type RuleScorer struct{}

// NewRuleScorer creates a rule scorer
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

// Score returns a weighted keyword/pattern score in [0,100]
func (s *RuleScorer) Score(message string) float64 {
	score := 0.0
	lower := strings.ToLower(message)

	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				score += group.weight
			}
		}
	}

	// Structural bonuses
	if upiLikePattern.MatchString(message) {
		score += 40
	}
	if accountRunPattern.MatchString(message) {
		score += 40
	}
	if strings.Contains(message, "http") || strings.Contains(message, "bit.ly") || strings.Contains(message, "goo.gl") {
		score += 35
	}
	if indianMobilePattern.MatchString(message) {
		score += 25
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Classify maps a message to a coarse scam category by keyword,
// in priority order. Job scams first: their vocabulary overlaps with
// banking and prize scams and would otherwise be shadowed.
func (s *RuleScorer) Classify(message string) string {
	msg := strings.ToLower(message)

	if containsAny(msg, "job", "hiring", "salary", "work from home", "offer letter") {
		return models.ScamTypeJob
	}
	if containsAny(msg, "bank", "account blocked", "kyc", "verify account", "suspended") {
		return models.ScamTypeBanking
	}
	if containsAny(msg, "won", "prize", "lottery", "winner", "lucky draw") {
		return models.ScamTypePrize
	}
	if containsAny(msg, "virus", "hacked", "security", "antivirus", "remote") {
		return models.ScamTypeTechSupport
	}
	if containsAny(msg, "loan", "interest", "invest", "profit", "returns") {
		return models.ScamTypeInvestment
	}
	if containsAny(msg, "love", "relationship", "marriage", "lonely") {
		return models.ScamTypeRomance
	}
	return models.ScamTypeUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
