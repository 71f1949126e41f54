package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyquiz-backend/internal/platform/ai"
	"github.com/yungbote/studyquiz-backend/internal/platform/gcp"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/platform/redisx"
	"github.com/yungbote/studyquiz-backend/internal/platform/sendgrid"
	"github.com/yungbote/studyquiz-backend/internal/voice"
)

type Clients struct {
	Redis     *goredis.Client
	GcpBucket gcp.BucketService
	Speech    *gcp.SpeechRecognizer
	AI        *ai.Selector
	Email     sendgrid.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional)
	rdb, err := redisx.Connect(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	// Gcs
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		closeRedis(rdb)
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	// Speech (optional)
	var speech *gcp.SpeechRecognizer
	if cfg.VoiceEnabled {
		speech, err = gcp.NewSpeechRecognizer(ctx, log)
		if err != nil {
			log.Warn("Speech recognizer unavailable; voice input disabled", "error", err)
			speech = nil
		}
	}

	// AI
	selector := ai.NewSelector(ai.ConfigFromEnv(log), log)

	// SendGrid (optional)
	email, err := sendgrid.New(log, sendgrid.ConfigFromEnv(log))
	if err != nil {
		_ = speech.Close()
		closeRedis(rdb)
		return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
	}

	return Clients{
		Redis:     rdb,
		GcpBucket: bucket,
		Speech:    speech,
		AI:        selector,
		Email:     email,
	}, nil
}

// recognizer keeps a nil *SpeechRecognizer from becoming a non-nil interface.
func (c Clients) recognizer() voice.Recognizer {
	if c.Speech == nil {
		return nil
	}
	return c.Speech
}

func closeRedis(rdb *goredis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	_ = c.Speech.Close()
	closeRedis(c.Redis)
}
