package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"honeypot-lab/pkg/logger"
)

type fakeGenerator struct {
	reply  string
	err    error
	system string
}

func (f *fakeGenerator) GenerateReply(_ context.Context, systemPrompt, _ string, _ float64) (string, error) {
	f.system = systemPrompt
	return f.reply, f.err
}

func TestRespondNonScam(t *testing.T) {
	e := NewEngine(nil, logger.Nop())

	resp := e.Respond(context.Background(), "lunch tomorrow?", false, "", 1, 0)
	assert.Equal(t, "ignore", resp.Strategy)
	assert.Empty(t, resp.Persona)
	assert.NotEmpty(t, resp.Message)
}

func TestRespondUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "Oh my, how do I pay you then?"}
	e := NewEngine(gen, logger.Nop())

	resp := e.Respond(context.Background(), "your account is blocked, pay now", true, "banking", 4, 0)
	assert.Equal(t, "Oh my, how do I pay you then?", resp.Message)
	assert.Equal(t, "elderly_person", resp.Persona)
	assert.Equal(t, "initial_extraction", resp.Strategy)
	assert.Contains(t, gen.system, "67-year-old")
	assert.Contains(t, gen.system, "Get first payment details")
}

func TestRespondFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	e := NewEngine(gen, logger.Nop())

	resp := e.Respond(context.Background(), "your account is blocked", true, "banking", 4, 0)
	assert.NotEmpty(t, resp.Message)
	assert.Contains(t, fallbackTemplates["initial_extraction"], resp.Message)
}

func TestRespondTemplateOnlyWithoutGenerator(t *testing.T) {
	e := NewEngine(nil, logger.Nop())

	resp := e.Respond(context.Background(), "you won a prize!", true, "prize", 1, 0)
	assert.Equal(t, "young_eager_adult", resp.Persona)
	assert.Equal(t, "engagement", resp.Strategy)
	assert.Contains(t, fallbackTemplates["engagement"], resp.Message)
}

func TestRespondExitOverride(t *testing.T) {
	e := NewEngine(nil, logger.Nop())

	// scammer grows suspicious mid-conversation
	resp := e.Respond(context.Background(), "are you a bot or real?", true, "banking", 4, 0)
	assert.Equal(t, "exit", resp.Strategy)
	assert.Contains(t, fallbackTemplates["exit"], resp.Message)
}
