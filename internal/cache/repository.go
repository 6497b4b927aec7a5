package cache

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/zizouhuweidi/qna/internal/domain"
)

// Repository is a read-through cache in front of another question store.
//
// The wrapped store stays the source of truth: cache failures are logged and the
// request continues against the store. Writes only invalidate; the next read
// fills the cache again.
type Repository struct {
	domain.QuestionRepository
	cache *Manager
}

// NewRepository wraps next with a Redis cache
func NewRepository(next domain.QuestionRepository, cache *Manager) *Repository {
	return &Repository{
		QuestionRepository: next,
		cache:              cache,
	}
}

// GetQuestion serves from Redis when possible and fills the cache on a miss
func (r *Repository) GetQuestion(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	q, err := r.cache.GetQuestion(ctx, id)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, ErrMiss) {
		logrus.WithError(err).WithField("question_id", id).Warn("question cache read failed")
	}

	// Taken before the store read so a write in between makes the fill stale
	gen, genErr := r.cache.Generation(ctx, id)

	q, err = r.QuestionRepository.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		logrus.WithError(genErr).WithField("question_id", id).Warn("question cache read failed")
		return q, nil
	}
	if err := r.cache.StoreQuestion(ctx, q, gen); err != nil && !errors.Is(err, ErrStale) {
		logrus.WithError(err).WithField("question_id", id).Warn("question cache write failed")
	}
	return q, nil
}

// AddQuestion stores the question and invalidates any copy cached under its id
func (r *Repository) AddQuestion(ctx context.Context, question domain.NewQuestion) (*domain.Question, error) {
	q, err := r.QuestionRepository.AddQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, q.ID)
	return q, nil
}

// UpdateQuestion updates the store and invalidates the cached copy
func (r *Repository) UpdateQuestion(ctx context.Context, id domain.QuestionID, question domain.Question) (*domain.Question, error) {
	q, err := r.QuestionRepository.UpdateQuestion(ctx, id, question)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)
	return q, nil
}

// DeleteQuestion deletes from the store and invalidates the cached copy
func (r *Repository) DeleteQuestion(ctx context.Context, id domain.QuestionID) error {
	if err := r.QuestionRepository.DeleteQuestion(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *Repository) invalidate(ctx context.Context, id domain.QuestionID) {
	if err := r.cache.InvalidateQuestion(ctx, id); err != nil {
		logrus.WithError(err).WithField("question_id", id).Warn("question cache invalidation failed")
	}
}
