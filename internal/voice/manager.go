// Package voice runs single-shot speech recognition sessions. A Manager owns
// one slot: starting a session stops whatever was running in it.
package voice

import (
	"context"
	"strings"
	"sync"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// Language is the only recognition language offered.
const Language = "en-US"

// Recognizer turns one clip of audio into a transcript. Implementations are
// non-continuous and return final results only.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, mimeType, language string) (string, error)
}

type Clip struct {
	Audio    []byte
	MimeType string
}

// Handlers receive the outcome of a session. OnResult and OnError are
// mutually exclusive and fire at most once; OnEnd always fires last.
type Handlers struct {
	OnResult func(transcript string)
	OnError  func(err error)
	OnEnd    func()
}

type Manager struct {
	log *logger.Logger
	rec Recognizer

	mu     sync.Mutex
	gen    uint64
	active bool
	cancel context.CancelFunc
}

func NewManager(rec Recognizer, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{log: log.With("service", "VoiceManager"), rec: rec}
}

// Start stops any running session and begins recognising clip. It returns
// false, after reporting through h.OnError, when no recognizer is configured.
func (m *Manager) Start(ctx context.Context, clip Clip, h Handlers) bool {
	if m.rec == nil {
		m.Stop()
		if h.OnError != nil {
			h.OnError(ErrUnavailable)
		}
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sessCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.stopLocked()
	m.gen++
	gen := m.gen
	m.active = true
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(sessCtx, cancel, gen, clip, h)
	return true
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, gen uint64, clip Clip, h Handlers) {
	defer cancel()

	var transcript string
	var err error
	if len(clip.Audio) == 0 {
		err = ErrNoMicrophone
	} else {
		transcript, err = m.rec.Recognize(ctx, clip.Audio, clip.MimeType, Language)
		transcript = strings.TrimSpace(transcript)
		if err == nil && transcript == "" {
			err = ErrNoSpeech
		}
	}

	m.mu.Lock()
	current := m.gen == gen && m.active
	if current {
		m.active = false
		m.cancel = nil
	}
	m.mu.Unlock()

	if current {
		if err != nil {
			err = Normalize(err)
			m.log.Debug("Voice session failed", "error", err)
			if h.OnError != nil {
				h.OnError(err)
			}
		} else if h.OnResult != nil {
			h.OnResult(transcript)
		}
	}
	if h.OnEnd != nil {
		h.OnEnd()
	}
}

// Stop cancels the running session, if any. Its result and error callbacks
// are suppressed; OnEnd still fires. Safe to call repeatedly.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

// stopLocked requires m.mu.
func (m *Manager) stopLocked() {
	if !m.active {
		return
	}
	m.active = false
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) IsListening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Available reports whether a recognizer is configured.
func (m *Manager) Available() bool { return m.rec != nil }
