package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zizouhuweidi/qna/internal/domain"
	"github.com/zizouhuweidi/qna/internal/validation"
	"github.com/zizouhuweidi/qna/internal/websocket"
)

// Publisher receives change notifications. *websocket.Hub implements it.
type Publisher interface {
	Publish(eventType string, questionID string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, any) {}

// QuestionService applies catalogue rules on top of a question store
type QuestionService struct {
	repo      domain.QuestionRepository
	publisher Publisher
}

// NewQuestionService creates a new question service. A nil publisher disables events.
func NewQuestionService(repo domain.QuestionRepository, publisher Publisher) *QuestionService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &QuestionService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListQuestions returns the page of the listing the caller asked for
func (s *QuestionService) ListQuestions(ctx context.Context, page domain.Page) ([]domain.Question, error) {
	return s.repo.ListQuestions(ctx, page)
}

// GetQuestion retrieves a question by its ID
func (s *QuestionService) GetQuestion(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

// AddQuestion validates and stores a new question
func (s *QuestionService) AddQuestion(ctx context.Context, question domain.NewQuestion) (*domain.Question, error) {
	if err := validateText(question.Title, question.Content); err != nil {
		return nil, err
	}
	question.Tags = validation.NormalizeTags(question.Tags)

	q, err := s.repo.AddQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	logrus.WithField("question_id", q.ID).Info("question added")
	s.publisher.Publish(websocket.EventQuestionCreated, q.ID.String(), q)
	return q, nil
}

// UpdateQuestion replaces the mutable fields of an existing question
func (s *QuestionService) UpdateQuestion(ctx context.Context, id domain.QuestionID, question domain.Question) (*domain.Question, error) {
	if err := validateText(question.Title, question.Content); err != nil {
		return nil, err
	}
	question.Tags = validation.NormalizeTags(question.Tags)

	q, err := s.repo.UpdateQuestion(ctx, id, question)
	if err != nil {
		return nil, err
	}

	logrus.WithField("question_id", q.ID).Info("question updated")
	s.publisher.Publish(websocket.EventQuestionUpdated, q.ID.String(), q)
	return q, nil
}

// DeleteQuestion deletes a question. Its answers are not removed.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id domain.QuestionID) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return err
	}

	logrus.WithField("question_id", id).Info("question deleted")
	s.publisher.Publish(websocket.EventQuestionDeleted, id.String(), map[string]string{"id": id.String()})
	return nil
}

// AddAnswer attaches an answer to an existing question and returns it with its new ID.
// The existence check and the insert are separate store calls, so a concurrent delete
// can still leave a dangling answer.
func (s *QuestionService) AddAnswer(ctx context.Context, questionID domain.QuestionID, content string) (*domain.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.InvalidQuestion("answer content cannot be empty")
	}
	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	answer := domain.Answer{
		ID:         uuid.New().String(),
		Content:    content,
		QuestionID: questionID,
	}
	if err := s.repo.AddAnswer(ctx, answer); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"answer_id":   answer.ID,
		"question_id": questionID,
	}).Info("answer added")
	s.publisher.Publish(websocket.EventAnswerAdded, questionID.String(), answer)
	return &answer, nil
}

// ListAnswers returns the answers of an existing question
func (s *QuestionService) ListAnswers(ctx context.Context, questionID domain.QuestionID) ([]domain.Answer, error) {
	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	return s.repo.ListAnswers(ctx, questionID)
}

func validateText(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return domain.InvalidQuestion("question title cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return domain.InvalidQuestion("question content cannot be empty")
	}
	return nil
}
