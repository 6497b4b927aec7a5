package domain

import (
	"context"
	"slices"
)

// QuestionID identifies a stored question. The database store renders its numeric
// key in decimal so both stores share one wire form.
type QuestionID string

// ParseQuestionID builds a QuestionID from a path segment or payload field. The
// value is kept verbatim so an id is reachable by exactly the string it was created with.
func ParseQuestionID(raw string) (QuestionID, error) {
	if raw == "" {
		return "", ErrInvalidQuestionID
	}
	return QuestionID(raw), nil
}

// String returns the id as it appears on the wire
func (id QuestionID) String() string {
	return string(id)
}

// Question represents a question in the catalogue
type Question struct {
	ID      QuestionID `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"` // nil means no tags and serializes as null
}

// Clone returns a copy that shares no memory with q
func (q Question) Clone() Question {
	q.Tags = cloneTags(q.Tags)
	return q
}

// NewQuestion is the creation payload for a question
type NewQuestion struct {
	ID      QuestionID `json:"id,omitempty"` // Requested id, honoured only by the in-memory store
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
}

// Question materializes the payload under the given id
func (n NewQuestion) Question(id QuestionID) Question {
	return Question{
		ID:      id,
		Title:   n.Title,
		Content: n.Content,
		Tags:    cloneTags(n.Tags),
	}
}

// Answer represents an answer attached to a question
type Answer struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}

// QuestionRepository defines the storage contract shared by every question store
type QuestionRepository interface {
	// ListQuestions returns the questions selected by page in a stable order
	ListQuestions(ctx context.Context, page Page) ([]Question, error)

	// GetQuestion retrieves a question by its ID
	GetQuestion(ctx context.Context, id QuestionID) (*Question, error)

	// AddQuestion stores a new question and returns it with its assigned ID
	AddQuestion(ctx context.Context, question NewQuestion) (*Question, error)

	// UpdateQuestion replaces the title, content and tags of an existing question
	UpdateQuestion(ctx context.Context, id QuestionID, question Question) (*Question, error)

	// DeleteQuestion deletes a question. Its answers are left in place.
	DeleteQuestion(ctx context.Context, id QuestionID) error

	// AddAnswer stores an answer without checking the referenced question
	AddAnswer(ctx context.Context, answer Answer) error

	// ListAnswers returns the answers referencing a question in insertion order
	ListAnswers(ctx context.Context, id QuestionID) ([]Answer, error)
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return slices.Clone(tags)
}
