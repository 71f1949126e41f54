package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/platform/ai"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/platform/redisx"
)

const (
	CodeAINotConfigured    = "ai_not_configured"
	CodeAIInvalidCreds     = "ai_invalid_credentials"
	CodeAIRateLimited      = "ai_rate_limited"
	CodeAIPaymentRequired  = "ai_payment_required"
	CodeAIProviderError    = "ai_provider_error"
	CodeAIUserRateLimited  = "rate_limited"
	maxSummarizeInputRunes = 50000
)

// AIRouter is the resolved provider pair. *ai.Selector implements it.
type AIRouter interface {
	Chat(ctx context.Context, messages []ai.Message, systemPrompt string) (string, error)
	Summarize(ctx context.Context, text, subjectName string) (string, error)
	ChatKind() ai.Kind
	SummarizeKind() ai.Kind
}

type AIReply struct {
	Content  string  `json:"content"`
	Provider ai.Kind `json:"provider"`
}

type AIStatus struct {
	Chat      ai.Kind `json:"chat"`
	Summarize ai.Kind `json:"summarize"`
}

type AIService interface {
	Chat(dbc dbctx.Context, userID uuid.UUID, messages []ai.Message, systemPrompt string) (*AIReply, error)
	Summarize(dbc dbctx.Context, userID uuid.UUID, text, subjectName string) (*AIReply, error)
	Status() AIStatus
}

type aiService struct {
	log    *logger.Logger
	router AIRouter
	// limiter is nil when Redis is not configured.
	limiter *redisx.RateLimiter
}

func NewAIService(log *logger.Logger, router AIRouter, limiter *redisx.RateLimiter) AIService {
	return &aiService{
		log:     log.With("service", "AIService"),
		router:  router,
		limiter: limiter,
	}
}

func (s *aiService) Status() AIStatus {
	return AIStatus{Chat: s.router.ChatKind(), Summarize: s.router.SummarizeKind()}
}

func (s *aiService) allow(ctx context.Context, userID uuid.UUID) error {
	if s.limiter == nil {
		return nil
	}
	ok, reset, err := s.limiter.Allow(ctx, redisx.Key("ai", userID.String()))
	if err != nil {
		s.log.Warn("AI rate limiter unavailable", "error", err)
		return nil
	}
	if !ok {
		return apierr.New(http.StatusTooManyRequests, CodeAIUserRateLimited,
			fmt.Errorf("Too many AI requests. Try again in %d seconds.", int(reset.Seconds())+1))
	}
	return nil
}

func (s *aiService) Chat(dbc dbctx.Context, userID uuid.UUID, messages []ai.Message, systemPrompt string) (*AIReply, error) {
	kept := make([]ai.Message, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case ai.RoleUser, ai.RoleAssistant, ai.RoleSystem:
		default:
			return nil, apierr.Validation(fmt.Sprintf("Unknown message role %q", m.Role))
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return nil, apierr.Validation("At least one message is required")
	}
	if err := s.allow(dbc.Ctx, userID); err != nil {
		return nil, err
	}
	out, err := s.router.Chat(dbc.Ctx, kept, systemPrompt)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &AIReply{Content: out, Provider: s.router.ChatKind()}, nil
}

func (s *aiService) Summarize(dbc dbctx.Context, userID uuid.UUID, text, subjectName string) (*AIReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.Validation("Text to summarize is required")
	}
	if len([]rune(text)) > maxSummarizeInputRunes {
		return nil, apierr.Validation(fmt.Sprintf("Text must be at most %d characters", maxSummarizeInputRunes))
	}
	if err := s.allow(dbc.Ctx, userID); err != nil {
		return nil, err
	}
	out, err := s.router.Summarize(dbc.Ctx, text, strings.TrimSpace(subjectName))
	if err != nil {
		return nil, s.mapError(err)
	}
	return &AIReply{Content: out, Provider: s.router.SummarizeKind()}, nil
}

// mapError gives AI failures their HTTP rendering.
func (s *aiService) mapError(err error) error {
	var cfgErr *ai.ConfigurationError
	if errors.As(err, &cfgErr) {
		return apierr.New(http.StatusServiceUnavailable, CodeAINotConfigured, err)
	}
	var pErr *ai.ProviderError
	if errors.As(err, &pErr) {
		s.log.Warn("AI provider call failed", "provider", string(pErr.Provider), "kind", string(pErr.Kind), "status", pErr.Status)
		switch pErr.Kind {
		case ai.ErrInvalidCredentials:
			return apierr.New(http.StatusBadGateway, CodeAIInvalidCreds, err)
		case ai.ErrRateLimited:
			return apierr.New(http.StatusTooManyRequests, CodeAIRateLimited, err)
		case ai.ErrPaymentRequired:
			return apierr.New(http.StatusPaymentRequired, CodeAIPaymentRequired, err)
		default:
			return apierr.New(http.StatusBadGateway, CodeAIProviderError, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.New(http.StatusGatewayTimeout, CodeAIProviderError, errors.New("AI provider timed out"))
	}
	return apierr.New(http.StatusBadGateway, CodeAIProviderError, err)
}
