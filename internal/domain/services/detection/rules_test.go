package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"honeypot-lab/internal/domain/models"
)

func TestRuleScorerScore(t *testing.T) {
	scorer := NewRuleScorer()

	tests := []struct {
		name    string
		message string
		min     float64
		max     float64
	}{
		{
			name:    "benign message scores zero",
			message: "see you at lunch tomorrow",
			min:     0,
			max:     0,
		},
		{
			name:    "single urgency keyword",
			message: "please reply urgent",
			min:     20,
			max:     20,
		},
		{
			name:    "UPI handle adds pattern bonus",
			message: "send to merchant@paytm",
			min:     40,
			max:     100,
		},
		{
			name:    "loaded scam message clamps at 100",
			message: "URGENT! Your bank account is blocked. Pay now to scammer@ybl or call 9876543210 http://bit.ly/x",
			min:     100,
			max:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(tt.message)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}

func TestRuleScorerClassify(t *testing.T) {
	scorer := NewRuleScorer()

	tests := []struct {
		message  string
		expected string
	}{
		{"exciting job offer with great salary", models.ScamTypeJob},
		{"your bank kyc needs verification", models.ScamTypeBanking},
		{"you won the lucky draw prize", models.ScamTypePrize},
		{"your computer has a virus, allow remote access", models.ScamTypeTechSupport},
		{"invest now for guaranteed returns", models.ScamTypeInvestment},
		{"hello how are you", models.ScamTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.Classify(tt.message))
		})
	}
}

func TestClassifyJobBeatsBanking(t *testing.T) {
	// job vocabulary overlaps with banking; job must win
	scorer := NewRuleScorer()
	assert.Equal(t, models.ScamTypeJob, scorer.Classify("job offer, salary paid to your bank account"))
}
