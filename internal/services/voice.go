package services

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/voice"
)

// MaxVoiceClipBytes caps a single uploaded recording.
const MaxVoiceClipBytes = 10 << 20

var errVoiceStopped = apierr.New(http.StatusConflict, "voice_stopped", errors.New("Voice input was stopped"))

type VoiceStatus struct {
	Available bool `json:"available"`
	Listening bool `json:"listening"`
}

type VoiceService interface {
	// Transcribe runs one recognition session in the caller's slot and waits
	// for it to end.
	Transcribe(ctx context.Context, userID uuid.UUID, clip voice.Clip) (string, error)
	Stop(userID uuid.UUID)
	Status(userID uuid.UUID) VoiceStatus
}

type voiceService struct {
	log *logger.Logger
	rec voice.Recognizer

	mu       sync.Mutex
	managers map[uuid.UUID]*voice.Manager
}

// NewVoiceService accepts a nil recognizer; every session then fails with
// capability_unavailable.
func NewVoiceService(log *logger.Logger, rec voice.Recognizer) VoiceService {
	return &voiceService{
		log:      log.With("service", "VoiceService"),
		rec:      rec,
		managers: map[uuid.UUID]*voice.Manager{},
	}
}

func (vs *voiceService) managerFor(userID uuid.UUID) *voice.Manager {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	m := vs.managers[userID]
	if m == nil {
		m = voice.NewManager(vs.rec, vs.log)
		vs.managers[userID] = m
	}
	return m
}

func (vs *voiceService) Transcribe(ctx context.Context, userID uuid.UUID, clip voice.Clip) (string, error) {
	if len(clip.Audio) > MaxVoiceClipBytes {
		return "", apierr.New(http.StatusRequestEntityTooLarge, apierr.CodeInvalidRequest, errors.New("Recording is too large"))
	}
	m := vs.managerFor(userID)

	var (
		transcript string
		failure    error
		got        bool
	)
	done := make(chan struct{})
	started := m.Start(ctx, clip, voice.Handlers{
		OnResult: func(t string) { transcript, got = t, true },
		OnError:  func(err error) { failure = err },
		OnEnd:    func() { close(done) },
	})
	if !started {
		return "", mapVoiceError(failure)
	}

	select {
	case <-done:
	case <-ctx.Done():
		m.Stop()
		<-done
		return "", ctx.Err()
	}
	if failure != nil {
		return "", mapVoiceError(failure)
	}
	if !got {
		return "", errVoiceStopped
	}
	return transcript, nil
}

func (vs *voiceService) Stop(userID uuid.UUID) {
	vs.mu.Lock()
	m := vs.managers[userID]
	vs.mu.Unlock()
	if m != nil {
		m.Stop()
	}
}

func (vs *voiceService) Status(userID uuid.UUID) VoiceStatus {
	vs.mu.Lock()
	m := vs.managers[userID]
	vs.mu.Unlock()
	st := VoiceStatus{Available: vs.rec != nil}
	if m != nil {
		st.Listening = m.IsListening()
	}
	return st
}

func mapVoiceError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	var ve *voice.Error
	if !errors.As(err, &ve) {
		return apierr.New(http.StatusBadGateway, string(voice.CodeRecognition), err)
	}
	switch ve.Code {
	case voice.CodeNoSpeech, voice.CodeNoMicrophone:
		return apierr.New(http.StatusUnprocessableEntity, string(ve.Code), ve)
	case voice.CodeNetwork:
		return apierr.New(http.StatusServiceUnavailable, string(ve.Code), ve)
	default:
		return apierr.New(http.StatusBadGateway, string(ve.Code), ve)
	}
}
