package ai

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// compatClient serves Groq and OpenAI, which share the OpenAI chat
// completions wire format.
type compatClient struct {
	kind  Kind
	log   *logger.Logger
	http  *resty.Client
	model string
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func newCompatClient(kind Kind, cfg ProviderConfig, timeout time.Duration, log *logger.Logger) *compatClient {
	return &compatClient{
		kind:  kind,
		log:   log.With("provider", string(kind)),
		model: cfg.Model,
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(timeout).
			SetAuthToken(cfg.APIKey).
			SetHeader("Content-Type", "application/json"),
	}
}

func NewGroq(cfg ProviderConfig, timeout time.Duration, log *logger.Logger) Provider {
	return newCompatClient(KindGroq, cfg, timeout, log)
}

func NewOpenAI(cfg ProviderConfig, timeout time.Duration, log *logger.Logger) Provider {
	return newCompatClient(KindOpenAI, cfg, timeout, log)
}

func (c *compatClient) Kind() Kind { return c.kind }

func (c *compatClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (string, error) {
	msgs := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: systemPrompt})
	}
	msgs = append(msgs, messages...)
	return c.complete(ctx, chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: chatTemperature,
	})
}

func (c *compatClient) Summarize(ctx context.Context, text, subjectName string) (string, error) {
	return c.complete(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: summarizeSystemPrompt(subjectName)},
			{Role: RoleUser, Content: summarizeUserPrompt(text)},
		},
		Temperature: summarizeTemperature,
		MaxTokens:   summarizeMaxTokens,
	})
}

func (c *compatClient) complete(ctx context.Context, req chatCompletionRequest) (string, error) {
	var out chatCompletionResponse
	var upErr upstreamError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&upErr).
		Post("/chat/completions")
	if err != nil {
		c.log.Warn("Chat completion request failed", "error", err)
		return "", newProviderError(c.kind, 0, "", err)
	}
	if resp.IsError() {
		msg := upErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		c.log.Warn("Chat completion rejected", "status", resp.StatusCode(), "message", msg)
		return "", newProviderError(c.kind, resp.StatusCode(), msg, nil)
	}
	if len(out.Choices) == 0 {
		return "", newProviderError(c.kind, resp.StatusCode(), "empty response", nil)
	}
	return out.Choices[0].Message.Content, nil
}
