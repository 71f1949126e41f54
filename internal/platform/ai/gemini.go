package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type geminiClient struct {
	log    *logger.Logger
	http   *resty.Client
	apiKey string
	model  string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGemini(cfg ProviderConfig, timeout time.Duration, log *logger.Logger) Provider {
	return &geminiClient{
		log:    log.With("provider", string(KindGemini)),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

func (g *geminiClient) Kind() Kind { return KindGemini }

// Chat drops system turns, maps assistant to "model" and sends systemPrompt
// as a leading user turn.
func (g *geminiClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (string, error) {
	contents := make([]geminiContent, 0, len(messages)+1)
	if systemPrompt != "" {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}})
	}
	for _, m := range messages {
		if m.Role == RoleSystem {
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	return g.generate(ctx, geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     chatTemperature,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: geminiChatMaxTokens,
		},
	})
}

func (g *geminiClient) Summarize(ctx context.Context, text, subjectName string) (string, error) {
	prompt := summarizeSystemPrompt(subjectName) + "\n\n" + summarizeUserPrompt(text)
	return g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     summarizeTemperature,
			MaxOutputTokens: summarizeMaxTokens,
		},
	})
}

func (g *geminiClient) generate(ctx context.Context, req geminiRequest) (string, error) {
	var out geminiResponse
	var upErr upstreamError
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(req).
		SetResult(&out).
		SetError(&upErr).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", g.model))
	if err != nil {
		g.log.Warn("Gemini request failed", "error", err)
		return "", newProviderError(KindGemini, 0, "", err)
	}
	if resp.IsError() {
		msg := upErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		g.log.Warn("Gemini request rejected", "status", resp.StatusCode(), "message", msg)
		return "", newProviderError(KindGemini, resp.StatusCode(), msg, nil)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", newProviderError(KindGemini, resp.StatusCode(), "empty response", nil)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
