package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/redisx"
)

// QuizSessionTTL bounds how long an abandoned quiz survives in Redis.
const QuizSessionTTL = 24 * time.Hour

// QuizSession is the in-progress quiz of one user. Questions keep their
// correct answers; they never leave the server in this form.
type QuizSession struct {
	UserID    uuid.UUID            `json:"user_id"`
	AttemptID uuid.UUID            `json:"attempt_id"`
	SubjectID uuid.UUID            `json:"subject_id"`
	Questions []*types.Question    `json:"questions"`
	Answers   map[uuid.UUID]string `json:"answers"`
	// Persisted holds question ids whose response row was already written by
	// an earlier, partially failed submit.
	Persisted map[uuid.UUID]bool `json:"persisted"`
	StartedAt time.Time          `json:"started_at"`
}

func (s *QuizSession) clone() *QuizSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Questions = append([]*types.Question(nil), s.Questions...)
	cp.Answers = make(map[uuid.UUID]string, len(s.Answers))
	for k, v := range s.Answers {
		cp.Answers[k] = v
	}
	cp.Persisted = make(map[uuid.UUID]bool, len(s.Persisted))
	for k, v := range s.Persisted {
		cp.Persisted[k] = v
	}
	return &cp
}

// QuizSessionStore keeps at most one session per user. Get returns nil, nil
// when the user has none.
type QuizSessionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*QuizSession, error)
	Put(ctx context.Context, s *QuizSession) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type memoryQuizSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*QuizSession
}

func NewMemoryQuizSessionStore() QuizSessionStore {
	return &memoryQuizSessionStore{sessions: map[uuid.UUID]*QuizSession{}}
}

func (m *memoryQuizSessionStore) Get(_ context.Context, userID uuid.UUID) (*QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID].clone(), nil
}

func (m *memoryQuizSessionStore) Put(_ context.Context, s *QuizSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s.clone()
	return nil
}

func (m *memoryQuizSessionStore) Delete(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

type redisQuizSessionStore struct {
	cache *redisx.JSONCache
}

func NewRedisQuizSessionStore(rdb *goredis.Client) QuizSessionStore {
	return &redisQuizSessionStore{cache: redisx.NewJSONCache(rdb, QuizSessionTTL)}
}

func quizSessionKey(userID uuid.UUID) string {
	return redisx.Key("quiz_session", userID.String())
}

func (r *redisQuizSessionStore) Get(ctx context.Context, userID uuid.UUID) (*QuizSession, error) {
	var s QuizSession
	found, err := r.cache.Get(ctx, quizSessionKey(userID), &s)
	if err != nil || !found {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = map[uuid.UUID]string{}
	}
	if s.Persisted == nil {
		s.Persisted = map[uuid.UUID]bool{}
	}
	return &s, nil
}

func (r *redisQuizSessionStore) Put(ctx context.Context, s *QuizSession) error {
	return r.cache.Set(ctx, quizSessionKey(s.UserID), s)
}

func (r *redisQuizSessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.cache.Delete(ctx, quizSessionKey(userID))
}
