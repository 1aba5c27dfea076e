package engagement

import "regexp"

// Strategy is a phase of the engagement playbook
type Strategy struct {
	Name              string
	Goal              string
	Approach          string
	TargetExtractions []string
}

// Strategies are the engagement phases, keyed by name
var Strategies = map[string]Strategy{
	"engagement": {
		Name:     "engagement",
		Goal:     "Build trust and show interest",
		Approach: "Respond positively, ask a simple clarifying question, appear convinced",
	},
	"initial_extraction": {
		Name:              "initial_extraction",
		Goal:              "Get first payment details",
		Approach:          "Agree to proceed, ask how and where to pay",
		TargetExtractions: []string{"upi_id", "phone_number"},
	},
	"deep_extraction": {
		Name:              "deep_extraction",
		Goal:              "Get complete payment and contact details",
		Approach:          "Claim the first method failed, ask for bank account and alternate numbers",
		TargetExtractions: []string{"bank_account", "ifsc_code", "alternate_upi", "alternate_phone"},
	},
	"stalling": {
		Name:     "stalling",
		Goal:     "Waste the scammer's time",
		Approach: "Invent small obstacles, ask to repeat instructions, delay without refusing",
	},
	"exit": {
		Name:     "exit",
		Goal:     "End the conversation naturally",
		Approach: "Make a believable excuse and stop responding",
	},
	"ignore": {
		Name:     "ignore",
		Goal:     "Respond neutrally to a non-scam message",
		Approach: "Short polite reply, no persona theatrics",
	},
}

// exitKeywords end an engagement when the scammer grows suspicious.
// Whole-word matching so "claims" or "chair" do not trigger it.
var exitKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpolice\b`),
	regexp.MustCompile(`(?i)\bfraud\b`),
	regexp.MustCompile(`(?i)\bstop\b`),
	regexp.MustCompile(`(?i)\breport\b`),
	regexp.MustCompile(`(?i)\bsuspicious\b`),
	regexp.MustCompile(`(?i)\bbot\b`),
	regexp.MustCompile(`(?i)\bai\b`),
	regexp.MustCompile(`(?i)\bfake\b`),
	regexp.MustCompile(`(?i)\bscam\b`),
}

// StrategyForTurn picks the engagement phase for the current turn.
// Once enough intelligence is collected and the conversation is mature
// it exits regardless of turn count.
func StrategyForTurn(turn int, completeness int) Strategy {
	if completeness >= 80 && turn >= 6 {
		return Strategies["exit"]
	}
	switch {
	case turn <= 2:
		return Strategies["engagement"]
	case turn <= 5:
		return Strategies["initial_extraction"]
	case turn <= 8:
		return Strategies["deep_extraction"]
	case turn <= 12:
		return Strategies["stalling"]
	default:
		return Strategies["exit"]
	}
}

// ShouldExit reports whether the engagement must end now, overriding
// whatever phase the turn count would pick
func ShouldExit(message string, turn int, completeness int) bool {
	for _, kw := range exitKeywords {
		if kw.MatchString(message) {
			return true
		}
	}
	if turn >= 15 {
		return true
	}
	if completeness >= 90 && turn >= 6 {
		return true
	}
	if completeness >= 70 && turn >= 10 {
		return true
	}
	return false
}
