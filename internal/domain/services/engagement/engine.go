package engagement

import (
	"context"
	"math/rand"
	"strings"

	"honeypot-lab/pkg/logger"
)

// Generator produces a persona reply from a system prompt and the
// scammer's latest message
type Generator interface {
	GenerateReply(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error)
}

// Response is the engagement engine's output for one turn
type Response struct {
	Message  string
	Persona  string
	Strategy string
}

// fallbackTemplates keep the conversation going when no language
// model is configured or the call fails, keyed by strategy name
var fallbackTemplates = map[string][]string{
	"engagement": {
		"Oh really? Tell me more about this please.",
		"That sounds interesting. How does it work?",
		"I see. Is this genuine? My friend told me to be careful online.",
	},
	"initial_extraction": {
		"Okay I want to proceed. How do I send the money?",
		"Alright, what are the payment details? Should I use UPI?",
		"Fine, where do I pay? Please send me the number.",
	},
	"deep_extraction": {
		"The UPI payment failed on my phone. Can you give me your bank account number instead?",
		"It says transaction declined. Do you have another number or account I can try?",
		"My bank app is asking for IFSC code also. Can you share the full account details?",
	},
	"stalling": {
		"Sorry, my phone battery died earlier. Can you repeat the steps once more?",
		"I am trying but the OTP is not coming. Give me some time please.",
		"My son usually helps me with these things, he will be home soon. Please wait.",
	},
	"exit": {
		"Someone is at the door, I have to go. I will message you later.",
		"My daughter just arrived, I need to talk to her first. Bye for now.",
		"I have to leave for the hospital now. We can continue tomorrow.",
	},
	"ignore": {
		"Okay, thanks for letting me know.",
		"Alright, noted.",
		"Sure, sounds good.",
	},
}

// Engine generates honeypot replies: LLM when available, template
// banks otherwise
type Engine struct {
	generator Generator
	logger    *logger.Logger
}

// NewEngine creates an engagement engine. generator may be nil, in
// which case every reply comes from the template banks.
func NewEngine(generator Generator, log *logger.Logger) *Engine {
	return &Engine{
		generator: generator,
		logger:    log.WithComponent("engagement-engine"),
	}
}

// Respond produces the reply for one turn. For non-scam conversations
// it answers neutrally without a persona.
func (e *Engine) Respond(ctx context.Context, message string, isScam bool, scamType string, turn int, completeness int) Response {
	if !isScam {
		return Response{
			Message:  e.fallback("ignore"),
			Strategy: "ignore",
		}
	}

	strategy := StrategyForTurn(turn, completeness)
	if strategy.Name != "exit" && ShouldExit(message, turn, completeness) {
		strategy = Strategies["exit"]
	}
	persona := SelectPersona(scamType)

	reply := ""
	if e.generator != nil {
		generated, err := e.generator.GenerateReply(ctx, PersonaContext(persona, strategy), message, 0.8)
		if err != nil {
			e.logger.Warn().Err(err).Str("strategy", strategy.Name).Msg("reply generation failed, using template")
		} else {
			reply = strings.TrimSpace(generated)
		}
	}
	if reply == "" {
		reply = e.fallback(strategy.Name)
	}

	e.logger.Debug().
		Str("persona", persona.Name).
		Str("strategy", strategy.Name).
		Int("turn", turn).
		Int("completeness", completeness).
		Msg("engagement reply ready")

	return Response{
		Message:  reply,
		Persona:  persona.Name,
		Strategy: strategy.Name,
	}
}

// fallback picks a canned reply for a strategy
func (e *Engine) fallback(strategy string) string {
	templates, ok := fallbackTemplates[strategy]
	if !ok || len(templates) == 0 {
		return "Okay, let me think about that."
	}
	return templates[rand.Intn(len(templates))]
}
