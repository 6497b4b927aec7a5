package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the two tables the repository reads and writes. Answers carry no
// foreign key, so deleting a question leaves its answers behind.
const Schema = `
	CREATE TABLE IF NOT EXISTS questions (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		tags TEXT[]
	);

	CREATE TABLE IF NOT EXISTS answers (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		corresponding_question INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(corresponding_question);
`

// Repository implements domain.QuestionRepository on PostgreSQL
type Repository struct {
	*QuestionRepository
	*AnswerRepository
}

// NewRepository creates a repository sharing one pool between questions and answers
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	return &Repository{
		QuestionRepository: NewQuestionRepository(pool, timeout),
		AnswerRepository:   NewAnswerRepository(pool, timeout),
	}
}

// EnsureSchema creates the tables when they do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
