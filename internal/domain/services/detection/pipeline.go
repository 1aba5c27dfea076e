package detection

import (
	"context"
	"fmt"
	"time"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

const (
	llmLowerBound        = 45.0
	llmUpperBound        = 90.0
	validationLowerBound = 70.0
	validationUpperBound = 90.0
	scamThreshold        = 70.0

	datasetBoostFactor    = 0.15
	urlBoostFactor        = 0.25
	validationBoostFactor = 0.2
	disagreementFactor    = 0.8
)

// Classification is an LLM scam-intent analysis of a single message
type Classification struct {
	IsScam     bool     `json:"is_scam"`
	Confidence float64  `json:"confidence"`
	ScamType   string   `json:"scam_type"`
	Reasoning  string   `json:"reasoning"`
	Indicators []string `json:"indicators,omitempty"`
}

// Validation is a second-opinion review of a borderline classification
type Validation struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier produces an LLM classification for borderline messages.
// A nil result with nil error means the classifier declined to answer.
type Classifier interface {
	AnalyzeScam(ctx context.Context, message string) (*Classification, error)
}

// Validator double-checks a positive classification
type Validator interface {
	ValidateDetection(ctx context.Context, message string, classification *Classification) (*Validation, error)
}

// Pipeline runs the tiered detection stack: rule scoring always,
// dataset and URL boosts always, LLM classification only in the
// uncertain band, validation only on borderline positives.
type Pipeline struct {
	rules      *RuleScorer
	dataset    *PatternDB
	urls       *URLScorer
	classifier Classifier
	validator  Validator
	logger     *logger.Logger
}

// NewPipeline wires the detection tiers together. classifier and
// validator may be nil, in which case their tiers are skipped.
func NewPipeline(rules *RuleScorer, dataset *PatternDB, urls *URLScorer, classifier Classifier, validator Validator, log *logger.Logger) *Pipeline {
	return &Pipeline{
		rules:      rules,
		dataset:    dataset,
		urls:       urls,
		classifier: classifier,
		validator:  validator,
		logger:     log.WithComponent("detection-pipeline"),
	}
}

// Detect scores one inbound message through every applicable tier
func (p *Pipeline) Detect(ctx context.Context, message string) models.DetectionResult {
	start := time.Now()

	score := p.rules.Score(message)
	scamType := p.rules.Classify(message)
	reasoning := []string{fmt.Sprintf("T1-Rules:%.0f", score)}

	if match := p.dataset.Match(message); match != nil {
		boost := match.Confidence * datasetBoostFactor
		score += boost
		if score > 100 {
			score = 100
		}
		if match.Category != "" {
			scamType = match.Category
		}
		reasoning = append(reasoning, fmt.Sprintf("T2-Dataset:+%.0f", boost))
	}

	if urlVerdict := p.urls.ScoreMessage(message); urlVerdict.Suspicious {
		boost := float64(urlVerdict.Confidence) * urlBoostFactor
		score += boost
		if score > 100 {
			score = 100
		}
		if scamType == models.ScamTypeUnknown || scamType == "" {
			category := "generic"
			if len(urlVerdict.Results) > 0 && urlVerdict.Results[0].Category != "" {
				category = urlVerdict.Results[0].Category
			}
			scamType = "phishing_" + category
		}
		reasoning = append(reasoning, fmt.Sprintf("T2.5-URL:+%.0f", boost))
	}

	var classification *Classification
	if p.classifier != nil && score >= llmLowerBound && score <= llmUpperBound {
		result, err := p.classifier.AnalyzeScam(ctx, message)
		if err != nil {
			p.logger.Warn().Err(err).Msg("LLM classification failed, keeping heuristic score")
		} else if result != nil {
			classification = result
			if result.IsScam {
				if result.Confidence > score {
					score = result.Confidence
				}
				if result.ScamType != "" {
					scamType = result.ScamType
				}
				reasoning = append(reasoning, fmt.Sprintf("T3-LLM:%.0f", result.Confidence))
			}
		}
	}

	if p.validator != nil && classification != nil && classification.IsScam &&
		score >= validationLowerBound && score <= validationUpperBound {
		validation, err := p.validator.ValidateDetection(ctx, message, classification)
		if err != nil {
			p.logger.Warn().Err(err).Msg("validation failed, keeping current score")
		} else if validation != nil {
			if validation.IsScam {
				boost := validation.Confidence * validationBoostFactor
				score += boost
				if score > 99 {
					score = 99
				}
				reasoning = append(reasoning, fmt.Sprintf("T4-Valid:+%.0f", boost))
			} else {
				score *= disagreementFactor
				reasoning = append(reasoning, "T4-Valid:Disagree(-20%)")
			}
		}
	}

	isScam := score > scamThreshold
	if !isScam {
		// negative verdicts carry no category
		scamType = ""
	}

	result := models.DetectionResult{
		IsScam:          isScam,
		Confidence:      score,
		ScamType:        scamType,
		Reasoning:       reasoning,
		DetectionTimeMS: time.Since(start).Milliseconds(),
	}

	p.logger.Debug().
		Bool("is_scam", result.IsScam).
		Float64("confidence", result.Confidence).
		Str("scam_type", result.ScamType).
		Int64("detection_ms", result.DetectionTimeMS).
		Msg("detection complete")

	return result
}
