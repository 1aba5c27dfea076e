// Package ai is the OpenAI-compatible chat-completion client behind
// the detection pipeline's LLM tiers and the engagement engine's
// persona replies.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"honeypot-lab/internal/domain/services/detection"
	"honeypot-lab/pkg/logger"
)

// Config holds LLM client configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// Client talks to any OpenAI-compatible chat completions endpoint
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     Config
}

// NewClient creates an LLM client. Defaults target Groq's hosted
// endpoint since it keeps latency inside the conversation loop budget.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("llm-client"),
		config:     cfg,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

const classifySystemPrompt = `You are a scam detection analyst reviewing messages sent to Indian consumers.
Classify the message for scam intent.

Respond in valid JSON with this structure:
{
  "is_scam": boolean,
  "confidence": 0-100,
  "scam_type": "banking|job|prize|lottery|investment|loan|tech_support|kyc|romance|unknown",
  "reasoning": "one sentence",
  "indicators": ["specific red flags found"]
}`

const validateSystemPrompt = `You are a second-opinion fraud reviewer. Another analyst flagged a message as a scam.
Independently assess whether the flag is correct. Be skeptical of false positives on legitimate bank or employer communication.

Respond in valid JSON:
{
  "is_scam": boolean,
  "confidence": 0-100,
  "reasoning": "one sentence"
}`

// AnalyzeScam classifies one message for scam intent
func (c *Client) AnalyzeScam(ctx context.Context, message string) (*detection.Classification, error) {
	content, err := c.chatCompletion(ctx, classifySystemPrompt, "Message:\n"+message, c.config.Temperature, true)
	if err != nil {
		return nil, err
	}

	var classification detection.Classification
	if err := parseJSONReply(content, &classification); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}
	return &classification, nil
}

// ValidateDetection double-checks a positive classification
func (c *Client) ValidateDetection(ctx context.Context, message string, classification *detection.Classification) (*detection.Validation, error) {
	prompt := fmt.Sprintf("Message:\n%s\n\nFirst analyst's verdict: scam_type=%s confidence=%.0f reasoning=%s",
		message, classification.ScamType, classification.Confidence, classification.Reasoning)

	content, err := c.chatCompletion(ctx, validateSystemPrompt, prompt, c.config.Temperature, true)
	if err != nil {
		return nil, err
	}

	var validation detection.Validation
	if err := parseJSONReply(content, &validation); err != nil {
		return nil, fmt.Errorf("failed to parse validation: %w", err)
	}
	return &validation, nil
}

// GenerateReply produces an in-character honeypot reply
func (c *Client) GenerateReply(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error) {
	return c.chatCompletion(ctx, systemPrompt, userMessage, temperature, false)
}

// chatCompletion performs the request with one retry on transient
// failures. jsonMode requests structured output where the backend
// supports it.
func (c *Client) chatCompletion(ctx context.Context, system, user string, temperature float64, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug().Int("attempt", attempt).Msg("retrying LLM request")
		}
		content, err := c.doRequest(ctx, jsonPayload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty LLM response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseJSONReply unmarshals model output leniently: markdown fences
// are stripped and anything outside the outermost braces is ignored.
func parseJSONReply(content string, out interface{}) error {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
