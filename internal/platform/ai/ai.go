// Package ai talks to the hosted chat-completion providers used for study
// assistance. Every provider speaks the same two operations; which one serves
// a request is decided once, at startup, by a Selector.
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Kind string

const (
	KindGemini Kind = "gemini"
	KindGroq   Kind = "groq"
	KindOpenAI Kind = "openai"
)

func (k Kind) credentialEnv() string {
	return strings.ToUpper(string(k)) + "_API_KEY"
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Provider interface {
	Kind() Kind
	// Chat continues a conversation. systemPrompt may be empty.
	Chat(ctx context.Context, messages []Message, systemPrompt string) (string, error)
	// Summarize condenses text, tailoring the prompt to subjectName when set.
	Summarize(ctx context.Context, text, subjectName string) (string, error)
}

type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func (p ProviderConfig) configured() bool { return p.APIKey != "" }

type Config struct {
	// Provider is the explicit AI_PROVIDER choice; empty or unknown means
	// fall back by availability.
	Provider string
	Timeout  time.Duration
	Gemini   ProviderConfig
	Groq     ProviderConfig
	OpenAI   ProviderConfig
}

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultGroqModel     = "llama-3.1-8b-instant"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultTimeout       = 60 * time.Second
)

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Provider: strings.ToLower(envutil.String("AI_PROVIDER", "", log)),
		Timeout:  envutil.Seconds("AI_TIMEOUT_SECONDS", DefaultTimeout, log),
		Gemini: ProviderConfig{
			APIKey:  envutil.Secret("GEMINI_API_KEY", log),
			BaseURL: envutil.String("GEMINI_BASE_URL", DefaultGeminiBaseURL, log),
			Model:   envutil.String("GEMINI_MODEL", DefaultGeminiModel, log),
		},
		Groq: ProviderConfig{
			APIKey:  envutil.Secret("GROQ_API_KEY", log),
			BaseURL: envutil.String("GROQ_BASE_URL", DefaultGroqBaseURL, log),
			Model:   envutil.String("GROQ_MODEL", DefaultGroqModel, log),
		},
		OpenAI: ProviderConfig{
			APIKey:  envutil.Secret("OPENAI_API_KEY", log),
			BaseURL: envutil.String("OPENAI_BASE_URL", DefaultOpenAIBaseURL, log),
			Model:   envutil.String("OPENAI_MODEL", DefaultOpenAIModel, log),
		},
	}
}
