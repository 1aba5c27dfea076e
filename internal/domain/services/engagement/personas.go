// Package engagement decides how the honeypot talks back: which
// persona to play, which conversational strategy fits the current
// turn, and what reply to send when no language model is available.
package engagement

import "honeypot-lab/internal/domain/models"

// Persona is a victim character the honeypot plays to keep a scammer
// engaged
type Persona struct {
	Name        string
	Description string
	Style       string
	Quirks      []string
}

// Personas are the available victim characters, keyed by name
var Personas = map[string]Persona{
	"elderly_person": {
		Name:        "elderly_person",
		Description: "A 67-year-old retiree who is not comfortable with technology",
		Style:       "polite, slightly confused, types slowly, asks things to be repeated",
		Quirks: []string{
			"asks for steps to be explained again",
			"mentions asking their son or daughter for help",
			"worries about doing something wrong",
		},
	},
	"young_eager_adult": {
		Name:        "young_eager_adult",
		Description: "A 23-year-old job seeker excited about any opportunity",
		Style:       "enthusiastic, quick replies, uses casual language, easily impressed",
		Quirks: []string{
			"asks how soon they can start or receive the prize",
			"shares excitement about needing the money",
			"asks lots of eager follow-up questions",
		},
	},
	"busy_professional": {
		Name:        "busy_professional",
		Description: "A 41-year-old manager who is distracted and short on time",
		Style:       "brief, slightly impatient, wants the bottom line, replies in bursts",
		Quirks: []string{
			"asks to get to the point",
			"mentions being in meetings",
			"wants everything summarized in one message",
		},
	},
}

// SelectPersona maps a detected scam type to the victim character most
// likely to keep that scammer talking
func SelectPersona(scamType string) Persona {
	switch scamType {
	case models.ScamTypeJob, models.ScamTypePrize, "lottery":
		return Personas["young_eager_adult"]
	case models.ScamTypeInvestment, "loan":
		return Personas["busy_professional"]
	default:
		// banking, tech_support, kyc and anything unrecognized
		return Personas["elderly_person"]
	}
}

// PersonaContext renders the system-prompt block describing how the
// persona should behave for this strategy
func PersonaContext(p Persona, s Strategy) string {
	prompt := "You are roleplaying as a potential scam victim to waste a scammer's time.\n" +
		"Character: " + p.Description + "\n" +
		"Speaking style: " + p.Style + "\n" +
		"Character quirks:\n"
	for _, q := range p.Quirks {
		prompt += "- " + q + "\n"
	}
	prompt += "\nCurrent goal: " + s.Goal + "\n" +
		"Approach: " + s.Approach + "\n" +
		"Never reveal you are not a real person. Never share real personal data. " +
		"Keep replies under 60 words and stay in character."
	return prompt
}
