package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/qna/internal/domain"
	"github.com/zizouhuweidi/qna/internal/pagination"
	"github.com/zizouhuweidi/qna/internal/service"
)

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// Register registers the question routes
func (h *QuestionHandler) Register(e *echo.Echo) {
	g := e.Group("/questions")
	g.GET("", h.ListQuestions)
	g.POST("", h.AddQuestion)
	g.GET("/:id", h.GetQuestion)
	g.PUT("/:id", h.UpdateQuestion)
	g.DELETE("/:id", h.DeleteQuestion)
	g.GET("/:id/answers", h.ListAnswers)
}

// QuestionRequest is the body of POST /questions and PUT /questions/:id.
// ID is only honoured on create, and only by stores that accept caller ids.
type QuestionRequest struct {
	ID      string   `json:"id"`
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// ListQuestions returns the whole listing or the page selected by start/end or offset/limit
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	page, err := pagination.Extract(pagination.FromQuery(c.QueryParams()))
	if err != nil {
		return err
	}

	questions, err := h.questionService.ListQuestions(c.Request().Context(), page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		return err
	}

	question, err := h.questionService.GetQuestion(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, question)
}

// AddQuestion creates a question
func (h *QuestionHandler) AddQuestion(c echo.Context) error {
	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	question := domain.NewQuestion{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.ID != "" {
		id, err := domain.ParseQuestionID(req.ID)
		if err != nil {
			return err
		}
		question.ID = id
	}

	if _, err := h.questionService.AddQuestion(c.Request().Context(), question); err != nil {
		return err
	}

	return c.String(http.StatusCreated, "Question successfully added")
}

// UpdateQuestion replaces a question and returns the stored value
func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		return err
	}

	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	question, err := h.questionService.UpdateQuestion(c.Request().Context(), id, domain.Question{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.questionService.DeleteQuestion(c.Request().Context(), id); err != nil {
		return err
	}

	return c.String(http.StatusOK, fmt.Sprintf("Question %s deleted", id))
}

// ListAnswers returns the answers attached to a question
func (h *QuestionHandler) ListAnswers(c echo.Context) error {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		return err
	}

	answers, err := h.questionService.ListAnswers(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, answers)
}
