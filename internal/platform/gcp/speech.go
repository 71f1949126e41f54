package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// SpeechRecognizer performs one synchronous, final-results-only recognition
// per call.
type SpeechRecognizer struct {
	log     *logger.Logger
	client  *speech.Client
	timeout time.Duration
}

func NewSpeechRecognizer(ctx context.Context, log *logger.Logger) (*SpeechRecognizer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &SpeechRecognizer{
		log:     log.With("service", "gcp.Speech"),
		client:  c,
		timeout: time.Minute,
	}, nil
}

func (s *SpeechRecognizer) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Recognize returns the first alternative of every result joined by spaces.
// gRPC errors are returned unwrapped so callers can classify them.
func (s *SpeechRecognizer) Recognize(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: recognitionConfig(mimeType, language),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	})
	if err != nil {
		s.log.Warn("Speech recognize failed", "error", err, "bytes", len(audio))
		return "", err
	}
	return transcriptOf(resp), nil
}

func recognitionConfig(mimeType, language string) *speechpb.RecognitionConfig {
	if language == "" {
		language = "en-US"
	}
	return &speechpb.RecognitionConfig{
		LanguageCode:               language,
		Encoding:                   inferSpeechEncoding(mimeType),
		EnableAutomaticPunctuation: true,
		MaxAlternatives:            1,
	}
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func transcriptOf(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
