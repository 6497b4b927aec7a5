package postgres

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/zizouhuweidi/qna/internal/domain"
)

var questionColumns = []string{"id", "title", "content", "tags"}

// strictPageQuery reads one page together with the total row count in a single
// statement; the LEFT JOIN keeps the count row when the page itself is empty.
const strictPageQuery = `
	WITH total AS (SELECT count(*) AS n FROM questions)
	SELECT total.n, page.id, page.title, page.content, page.tags
	FROM total
	LEFT JOIN LATERAL (
		SELECT id, title, content, tags
		FROM questions
		ORDER BY id
		LIMIT $1 OFFSET $2
	) AS page ON true
`

// QuestionRepository implements the question half of domain.QuestionRepository
type QuestionRepository struct {
	pool    *pgxpool.Pool
	sq      squirrel.StatementBuilderType
	timeout time.Duration
}

// NewQuestionRepository creates a new question repository. A zero timeout leaves
// statements bounded only by the caller's context.
func NewQuestionRepository(pool *pgxpool.Pool, timeout time.Duration) *QuestionRepository {
	return &QuestionRepository{
		pool:    pool,
		sq:      builder(),
		timeout: timeout,
	}
}

// ListQuestions returns questions in primary key order
func (r *QuestionRepository) ListQuestions(ctx context.Context, page domain.Page) ([]domain.Question, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if page.Strict() {
		return r.listStrict(ctx, page)
	}

	query, args, err := buildListQuery(r.sq, page)
	if err != nil {
		return nil, dbError("build list query", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list questions", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, dbError("scan question", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterate questions", err)
	}

	return questions, nil
}

func (r *QuestionRepository) listStrict(ctx context.Context, page domain.Page) ([]domain.Question, error) {
	limit, offset, err := strictBounds(page)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, strictPageQuery, limit, offset)
	if err != nil {
		return nil, dbError("list question range", err)
	}
	defer rows.Close()

	var total int64
	questions := make([]domain.Question, 0)
	for rows.Next() {
		var (
			id             *int64
			title, content *string
			tags           []string
		)
		if err := rows.Scan(&total, &id, &title, &content, &tags); err != nil {
			return nil, dbError("scan question", err)
		}
		if id == nil {
			continue
		}
		questions = append(questions, domain.Question{
			ID:      formatID(*id),
			Title:   *title,
			Content: *content,
			Tags:    tags,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterate questions", err)
	}

	if *page.End > uint64(total) {
		return nil, domain.ErrOutOfBound
	}

	return questions, nil
}

// GetQuestion retrieves a question by its ID
func (r *QuestionRepository) GetQuestion(ctx context.Context, id domain.QuestionID) (*domain.Question, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Select(questionColumns...).
		From("questions").
		Where(squirrel.Eq{"id": key}).
		ToSql()
	if err != nil {
		return nil, dbError("build get query", err)
	}

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, dbError("get question", err)
	}
	return &q, nil
}

// AddQuestion inserts a question and returns it with the id assigned by the database.
// A requested id on the payload is ignored.
func (r *QuestionRepository) AddQuestion(ctx context.Context, question domain.NewQuestion) (*domain.Question, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Insert("questions").
		Columns("title", "content", "tags").
		Values(question.Title, question.Content, question.Tags).
		Suffix("RETURNING id, title, content, tags").
		ToSql()
	if err != nil {
		return nil, dbError("build insert query", err)
	}

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dbError("add question", err)
	}
	return &q, nil
}

// UpdateQuestion replaces the title, content and tags of an existing question
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, id domain.QuestionID, question domain.Question) (*domain.Question, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Update("questions").
		Set("title", question.Title).
		Set("content", question.Content).
		Set("tags", question.Tags).
		Where(squirrel.Eq{"id": key}).
		Suffix("RETURNING id, title, content, tags").
		ToSql()
	if err != nil {
		return nil, dbError("build update query", err)
	}

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, dbError("update question", err)
	}
	return &q, nil
}

// DeleteQuestion deletes a question. Answers referencing it are left in place.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id domain.QuestionID) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.sq.Delete("questions").
		Where(squirrel.Eq{"id": key}).
		ToSql()
	if err != nil {
		return dbError("build delete query", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return dbError("delete question", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func buildListQuery(sq squirrel.StatementBuilderType, page domain.Page) (string, []any, error) {
	q := sq.Select(questionColumns...).
		From("questions").
		OrderBy("id")
	if page.Offset > 0 {
		q = q.Offset(min(page.Offset, math.MaxInt64))
	}
	if page.Limit != nil {
		q = q.Limit(min(*page.Limit, math.MaxInt64))
	}
	return q.ToSql()
}

// strictBounds converts a start/end page into LIMIT and OFFSET arguments. Ranges that
// cannot fit any table are rejected before a connection is taken.
func strictBounds(page domain.Page) (int64, int64, error) {
	end := *page.End
	if page.Offset > end || end > math.MaxInt64 {
		return 0, 0, domain.ErrOutOfBound
	}
	return int64(end - page.Offset), int64(page.Offset), nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q  domain.Question
		id int64
	)
	if err := row.Scan(&id, &q.Title, &q.Content, &q.Tags); err != nil {
		return domain.Question{}, err
	}
	q.ID = formatID(id)
	return q, nil
}

// parseID maps a wire id onto the serial key. An id that is not a number cannot exist.
func parseID(id domain.QuestionID) (int64, error) {
	key, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return 0, domain.ErrQuestionNotFound
	}
	return key, nil
}

func formatID(key int64) domain.QuestionID {
	return domain.QuestionID(strconv.FormatInt(key, 10))
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// dbError logs the driver failure and hides it behind DatabaseQueryError
func dbError(op string, err error) error {
	logrus.WithError(err).WithField("op", op).Error("database query failed")
	return domain.DatabaseError(err)
}
