package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

type fakeClassifier struct {
	result *Classification
	err    error
	called bool
}

func (f *fakeClassifier) AnalyzeScam(_ context.Context, _ string) (*Classification, error) {
	f.called = true
	return f.result, f.err
}

type fakeValidator struct {
	result *Validation
	err    error
	called bool
}

func (f *fakeValidator) ValidateDetection(_ context.Context, _ string, _ *Classification) (*Validation, error) {
	f.called = true
	return f.result, f.err
}

func newTestPipeline(classifier Classifier, validator Validator) *Pipeline {
	return NewPipeline(
		NewRuleScorer(),
		NewPatternDB(logger.Nop()),
		NewURLScorer(logger.Nop()),
		classifier,
		validator,
		logger.Nop(),
	)
}

func TestDetectBenignMessage(t *testing.T) {
	p := newTestPipeline(nil, nil)

	result := p.Detect(context.Background(), "see you at dinner tonight")
	assert.False(t, result.IsScam)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.ScamType)
	assert.Equal(t, []string{"T1-Rules:0"}, result.Reasoning)
}

func TestDetectObviousScamWithoutLLM(t *testing.T) {
	p := newTestPipeline(nil, nil)

	result := p.Detect(context.Background(),
		"URGENT! Your bank account is blocked. Pay now to scammer@ybl or call 9876543210")
	assert.True(t, result.IsScam)
	assert.Equal(t, 100.0, result.Confidence)
	assert.Equal(t, models.ScamTypeBanking, result.ScamType)
}

func TestDetectLLMSkippedOutsideBand(t *testing.T) {
	classifier := &fakeClassifier{result: &Classification{IsScam: true, Confidence: 99}}
	p := newTestPipeline(classifier, nil)

	// score 0: below the uncertainty band, classifier never consulted
	p.Detect(context.Background(), "see you at dinner tonight")
	assert.False(t, classifier.called)
}

func TestDetectLLMOverridesInBand(t *testing.T) {
	classifier := &fakeClassifier{result: &Classification{
		IsScam:     true,
		Confidence: 85,
		ScamType:   models.ScamTypeInvestment,
	}}
	p := newTestPipeline(classifier, nil)

	// "urgent" + "payment" + "money": rules put this in the 45-90 band
	result := p.Detect(context.Background(), "urgent payment needed, money matter")
	assert.True(t, classifier.called)
	assert.True(t, result.IsScam)
	assert.Equal(t, 85.0, result.Confidence)
	assert.Equal(t, models.ScamTypeInvestment, result.ScamType)
	assert.Contains(t, result.Reasoning, "T3-LLM:85")
}

func TestDetectLLMNotScamKeepsHeuristicScore(t *testing.T) {
	classifier := &fakeClassifier{result: &Classification{IsScam: false, Confidence: 20}}
	p := newTestPipeline(classifier, nil)

	result := p.Detect(context.Background(), "urgent payment needed, money matter")
	assert.True(t, classifier.called)
	// heuristic score stands; a not-scam LLM opinion leaves no T3 trace
	// and the negative verdict carries no category
	assert.Equal(t, 70.0, result.Confidence)
	assert.False(t, result.IsScam)
	assert.NotContains(t, result.Reasoning, "T3-LLM:20")
	assert.Empty(t, result.ScamType)
}

func TestDetectLLMErrorDegradesGracefully(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("timeout")}
	p := newTestPipeline(classifier, nil)

	result := p.Detect(context.Background(), "urgent payment needed, money matter")
	assert.Equal(t, 70.0, result.Confidence)
	assert.Equal(t, []string{"T1-Rules:70"}, result.Reasoning)
}

func TestDetectValidationBoost(t *testing.T) {
	classifier := &fakeClassifier{result: &Classification{IsScam: true, Confidence: 80}}
	validator := &fakeValidator{result: &Validation{IsScam: true, Confidence: 90}}
	p := newTestPipeline(classifier, validator)

	result := p.Detect(context.Background(), "urgent payment needed, money matter")
	assert.True(t, validator.called)
	// 80 + 90*0.2 = 98
	assert.Equal(t, 98.0, result.Confidence)
	assert.True(t, result.IsScam)
	assert.Contains(t, result.Reasoning, "T4-Valid:+18")
}

func TestDetectValidationDisagreement(t *testing.T) {
	classifier := &fakeClassifier{result: &Classification{IsScam: true, Confidence: 80}}
	validator := &fakeValidator{result: &Validation{IsScam: false, Confidence: 95}}
	p := newTestPipeline(classifier, validator)

	result := p.Detect(context.Background(), "urgent payment needed, money matter")
	// 80 * 0.8 = 64: disagreement drops the verdict below the threshold
	assert.Equal(t, 64.0, result.Confidence)
	assert.False(t, result.IsScam)
	assert.Contains(t, result.Reasoning, "T4-Valid:Disagree(-20%)")
}

func TestDetectValidationSkippedWhenConfident(t *testing.T) {
	validator := &fakeValidator{result: &Validation{IsScam: true, Confidence: 90}}
	classifier := &fakeClassifier{result: &Classification{IsScam: true, Confidence: 95}}
	p := newTestPipeline(classifier, validator)

	// classifier pushes the score to 95, above the validation band
	p.Detect(context.Background(), "urgent payment needed, money matter")
	assert.False(t, validator.called)
}

func TestDetectThresholdBoundary(t *testing.T) {
	p := newTestPipeline(nil, nil)

	// exactly 70 (urgency 20 + two financial keywords 50) is not scam: verdict needs >70
	result := p.Detect(context.Background(), "urgent payment money")
	assert.Equal(t, 70.0, result.Confidence)
	assert.False(t, result.IsScam)
	assert.Empty(t, result.ScamType)
}
