package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/qna/internal/domain"
)

// AnswerRepository implements the answer half of domain.QuestionRepository
type AnswerRepository struct {
	pool    *pgxpool.Pool
	sq      squirrel.StatementBuilderType
	timeout time.Duration
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(pool *pgxpool.Pool, timeout time.Duration) *AnswerRepository {
	return &AnswerRepository{
		pool:    pool,
		sq:      builder(),
		timeout: timeout,
	}
}

// AddAnswer inserts an answer. The referenced question is not checked.
func (r *AnswerRepository) AddAnswer(ctx context.Context, answer domain.Answer) error {
	key, err := parseID(answer.QuestionID)
	if err != nil {
		return dbError("parse question reference", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Insert("answers").
		Columns("id", "content", "corresponding_question").
		Values(answer.ID, answer.Content, key).
		ToSql()
	if err != nil {
		return dbError("build insert query", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return dbError("add answer", err)
	}
	return nil
}

// ListAnswers returns the answers referencing a question in insertion order
func (r *AnswerRepository) ListAnswers(ctx context.Context, id domain.QuestionID) ([]domain.Answer, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Select("id", "content", "corresponding_question").
		From("answers").
		Where(squirrel.Eq{"corresponding_question": key}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, dbError("build list query", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list answers", err)
	}
	defer rows.Close()

	answers := make([]domain.Answer, 0)
	for rows.Next() {
		var (
			a   domain.Answer
			ref int64
		)
		if err := rows.Scan(&a.ID, &a.Content, &ref); err != nil {
			return nil, dbError("scan answer", err)
		}
		a.QuestionID = formatID(ref)
		answers = append(answers, a)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterate answers", err)
	}

	return answers, nil
}
