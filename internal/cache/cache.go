package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/qna/internal/domain"
)

const (
	// Default lifetime of a cached question
	defaultExpiration = 10 * time.Minute

	// Redis key prefixes
	questionKeyPrefix   = "question:"
	generationKeyPrefix = "question-gen:"
)

var (
	// ErrMiss reports a key that is not cached
	ErrMiss = errors.New("cache miss")

	// ErrStale reports a fill skipped because the question was written after it was read
	ErrStale = errors.New("cached question is stale")
)

// Manager stores questions in Redis as JSON blobs.
//
// Every question has a generation counter that writers bump when they invalidate it.
// A reader takes the generation before loading from the store and fills the cache
// only if it is still the same, so a value loaded before a write is never cached
// after it.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a new cache manager. A non-positive ttl uses the default.
func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultExpiration
	}
	return &Manager{redis: client, ttl: ttl}
}

// Generation returns the current generation of a question. An unknown question is at 0.
func (m *Manager) Generation(ctx context.Context, id domain.QuestionID) (int64, error) {
	gen, err := m.redis.Get(ctx, generationKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get question generation: %w", err)
	}
	return gen, nil
}

// StoreQuestion caches a question loaded at generation gen. It returns ErrStale
// without writing when the question was invalidated since.
func (m *Manager) StoreQuestion(ctx context.Context, question *domain.Question, gen int64) error {
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("failed to marshal question: %w", err)
	}

	genKey := generationKey(question.ID)
	err = m.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return ErrStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, questionKey(question.ID), data, m.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("failed to store question: %w", err)
	}
}

// GetQuestion retrieves a cached question
func (m *Manager) GetQuestion(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	data, err := m.redis.Get(ctx, questionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	var question domain.Question
	if err := json.Unmarshal(data, &question); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question: %w", err)
	}

	return &question, nil
}

// InvalidateQuestion bumps the generation of a question and evicts its cached copy
func (m *Manager) InvalidateQuestion(ctx context.Context, id domain.QuestionID) error {
	genKey := generationKey(id)
	_, err := m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, 2*m.ttl)
		pipe.Del(ctx, questionKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate question: %w", err)
	}
	return nil
}

func questionKey(id domain.QuestionID) string {
	return questionKeyPrefix + id.String()
}

func generationKey(id domain.QuestionID) string {
	return generationKeyPrefix + id.String()
}
