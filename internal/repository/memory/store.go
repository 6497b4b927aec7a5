package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/zizouhuweidi/qna/internal/domain"
)

// Store implements domain.QuestionRepository in process memory.
//
// Every operation takes the lock exactly once and releases it before returning.
// Entities are copied on the way in and out, so callers never share memory with the map.
type Store struct {
	mu        sync.RWMutex
	questions map[domain.QuestionID]domain.Question
	order     []domain.QuestionID
	answers   []domain.Answer
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		questions: make(map[domain.QuestionID]domain.Question),
	}
}

// NewStoreWithQuestions creates a store holding the given questions in order.
// Later duplicates of an id replace earlier ones but keep the first position.
func NewStoreWithQuestions(questions []domain.Question) (*Store, error) {
	s := NewStore()
	for _, q := range questions {
		if q.ID == "" {
			return nil, domain.ErrInvalidQuestionID
		}
		if _, ok := s.questions[q.ID]; !ok {
			s.order = append(s.order, q.ID)
		}
		s.questions[q.ID] = q.Clone()
	}
	return s, nil
}

// LoadSeed creates a store from a JSON array of questions on disk
func LoadSeed(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file: %w", err)
	}

	return NewStoreWithQuestions(questions)
}

// ListQuestions returns questions in insertion order
func (s *Store) ListQuestions(ctx context.Context, page domain.Page) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi, err := page.Window(len(s.order))
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, hi-lo)
	for _, id := range s.order[lo:hi] {
		questions = append(questions, s.questions[id].Clone())
	}
	return questions, nil
}

// GetQuestion retrieves a question by its ID
func (s *Store) GetQuestion(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	q = q.Clone()
	return &q, nil
}

// AddQuestion stores a question under its requested id, or a fresh UUID when none is given
func (s *Store) AddQuestion(ctx context.Context, question domain.NewQuestion) (*domain.Question, error) {
	id := question.ID
	if id == "" {
		id = domain.QuestionID(uuid.New().String())
	}
	q := question.Question(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; ok {
		return nil, domain.ErrDuplicateQuestion
	}
	s.questions[id] = q
	s.order = append(s.order, id)

	q = q.Clone()
	return &q, nil
}

// UpdateQuestion replaces the mutable fields of a question; the id never changes
func (s *Store) UpdateQuestion(ctx context.Context, id domain.QuestionID, question domain.Question) (*domain.Question, error) {
	q := question.Clone()
	q.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return nil, domain.ErrQuestionNotFound
	}
	s.questions[id] = q

	q = q.Clone()
	return &q, nil
}

// DeleteQuestion removes a question. Answers pointing at it are kept.
func (s *Store) DeleteQuestion(ctx context.Context, id domain.QuestionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// AddAnswer stores an answer. The referenced question is not checked.
func (s *Store) AddAnswer(ctx context.Context, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = append(s.answers, answer)
	return nil
}

// ListAnswers returns the answers referencing a question
func (s *Store) ListAnswers(ctx context.Context, id domain.QuestionID) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]domain.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == id {
			answers = append(answers, a)
		}
	}
	return answers, nil
}

// Len returns the number of stored questions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
