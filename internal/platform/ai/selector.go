package ai

import (
	"context"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

var (
	chatOrder      = []Kind{KindGemini, KindGroq, KindOpenAI}
	summarizeOrder = []Kind{KindGroq, KindGemini, KindOpenAI}
)

// Selector routes chat and summarize calls to the provider chosen at
// construction. Resolution never changes afterwards.
type Selector struct {
	log          *logger.Logger
	chat         Provider
	chatErr      error
	summarize    Provider
	summarizeErr error
}

// NewSelector builds a client for every configured credential and resolves
// the chat and summarize routes.
func NewSelector(cfg Config, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	available := map[Kind]Provider{}
	if cfg.Gemini.configured() {
		available[KindGemini] = NewGemini(cfg.Gemini, timeout, log)
	}
	if cfg.Groq.configured() {
		available[KindGroq] = NewGroq(cfg.Groq, timeout, log)
	}
	if cfg.OpenAI.configured() {
		available[KindOpenAI] = NewOpenAI(cfg.OpenAI, timeout, log)
	}
	return NewSelectorWith(cfg.Provider, available, log)
}

// NewSelectorWith resolves routes over an explicit set of providers.
// explicit names the AI_PROVIDER choice; unknown names fall back by
// availability.
func NewSelectorWith(explicit string, available map[Kind]Provider, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	s := &Selector{log: log.With("service", "AISelector")}
	s.chat, s.chatErr = resolve(Kind(explicit), chatOrder, available)
	s.summarize, s.summarizeErr = resolve(Kind(explicit), summarizeOrder, available)
	if s.chatErr != nil {
		s.log.Warn("AI chat unavailable", "error", s.chatErr)
	} else {
		s.log.Info("AI chat provider resolved", "provider", string(s.chat.Kind()))
	}
	if s.summarizeErr == nil {
		s.log.Info("AI summarize provider resolved", "provider", string(s.summarize.Kind()))
	}
	return s
}

func resolve(explicit Kind, order []Kind, available map[Kind]Provider) (Provider, error) {
	switch explicit {
	case KindGemini, KindGroq, KindOpenAI:
		if p := available[explicit]; p != nil {
			return p, nil
		}
		return nil, &ConfigurationError{Missing: []string{explicit.credentialEnv()}}
	}
	missing := make([]string, 0, len(order))
	for _, k := range order {
		if p := available[k]; p != nil {
			return p, nil
		}
		missing = append(missing, k.credentialEnv())
	}
	return nil, &ConfigurationError{Missing: missing}
}

func (s *Selector) Chat(ctx context.Context, messages []Message, systemPrompt string) (string, error) {
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chat.Chat(ctx, messages, systemPrompt)
}

func (s *Selector) Summarize(ctx context.Context, text, subjectName string) (string, error) {
	if s.summarizeErr != nil {
		return "", s.summarizeErr
	}
	return s.summarize.Summarize(ctx, text, subjectName)
}

// ChatKind reports the resolved chat provider, or "" when none.
func (s *Selector) ChatKind() Kind {
	if s.chat == nil {
		return ""
	}
	return s.chat.Kind()
}

func (s *Selector) SummarizeKind() Kind {
	if s.summarize == nil {
		return ""
	}
	return s.summarize.Kind()
}
