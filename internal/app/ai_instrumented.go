package app

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/ai"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type instrumentedAIRouter struct {
	inner   services.AIRouter
	metrics *observability.Metrics
}

func instrumentAIRouter(inner services.AIRouter) services.AIRouter {
	if inner == nil {
		return nil
	}
	return &instrumentedAIRouter{inner: inner, metrics: observability.Current()}
}

func (r *instrumentedAIRouter) Chat(ctx context.Context, messages []ai.Message, systemPrompt string) (string, error) {
	start := time.Now()
	out, err := r.inner.Chat(ctx, messages, systemPrompt)
	r.observe(r.inner.ChatKind(), "chat", err, time.Since(start))
	return out, err
}

func (r *instrumentedAIRouter) Summarize(ctx context.Context, text, subjectName string) (string, error) {
	start := time.Now()
	out, err := r.inner.Summarize(ctx, text, subjectName)
	r.observe(r.inner.SummarizeKind(), "summarize", err, time.Since(start))
	return out, err
}

func (r *instrumentedAIRouter) ChatKind() ai.Kind      { return r.inner.ChatKind() }
func (r *instrumentedAIRouter) SummarizeKind() ai.Kind { return r.inner.SummarizeKind() }

func (r *instrumentedAIRouter) observe(kind ai.Kind, op string, err error, dur time.Duration) {
	if r == nil || r.metrics == nil {
		return
	}
	provider := string(kind)
	if provider == "" {
		provider = "none"
	}
	status := "success"
	if err != nil {
		status = "error"
		var pe *ai.ProviderError
		if errors.As(err, &pe) && pe.Kind != "" {
			status = string(pe.Kind)
		}
	}
	r.metrics.ObserveAI(provider, op, status, dur)
}
