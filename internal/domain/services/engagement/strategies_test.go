package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategyForTurn(t *testing.T) {
	tests := []struct {
		name         string
		turn         int
		completeness int
		expected     string
	}{
		{"first turn", 1, 0, "engagement"},
		{"last engagement turn", 2, 0, "engagement"},
		{"first extraction turn", 3, 0, "initial_extraction"},
		{"last extraction turn", 5, 0, "initial_extraction"},
		{"first deep turn", 6, 0, "deep_extraction"},
		{"last deep turn", 8, 0, "deep_extraction"},
		{"first stalling turn", 9, 0, "stalling"},
		{"last stalling turn", 12, 0, "stalling"},
		{"past stalling", 13, 0, "exit"},
		{"rich extraction exits early", 6, 80, "exit"},
		{"rich extraction too early to exit", 5, 80, "initial_extraction"},
		{"incomplete extraction stays", 6, 79, "deep_extraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StrategyForTurn(tt.turn, tt.completeness).Name)
		})
	}
}

func TestShouldExit(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		turn         int
		completeness int
		expected     bool
	}{
		{"calm message early on", "ok tell me more", 4, 0, false},
		{"scammer mentions police", "I will call the police", 4, 0, true},
		{"scammer suspects a bot", "are you a bot?", 4, 0, true},
		{"scammer calls it a scam", "this is a scam", 4, 0, true},
		{"claims does not trigger report keyword", "the company claims big returns", 4, 0, false},
		{"chair does not trigger ai keyword", "sitting on my chair", 4, 0, false},
		{"turn cap", "hello", 15, 0, true},
		{"just under turn cap", "hello", 14, 0, false},
		{"near-complete extraction mid conversation", "hello", 6, 90, true},
		{"decent extraction late conversation", "hello", 10, 70, true},
		{"decent extraction too early", "hello", 9, 70, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldExit(tt.message, tt.turn, tt.completeness))
		})
	}
}

func TestSelectPersona(t *testing.T) {
	tests := []struct {
		scamType string
		expected string
	}{
		{"banking", "elderly_person"},
		{"tech_support", "elderly_person"},
		{"kyc", "elderly_person"},
		{"unknown", "elderly_person"},
		{"job", "young_eager_adult"},
		{"prize", "young_eager_adult"},
		{"lottery", "young_eager_adult"},
		{"investment", "busy_professional"},
		{"loan", "busy_professional"},
	}

	for _, tt := range tests {
		t.Run(tt.scamType, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectPersona(tt.scamType).Name)
		})
	}
}
