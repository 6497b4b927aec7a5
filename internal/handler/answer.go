package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/qna/internal/domain"
	"github.com/zizouhuweidi/qna/internal/service"
)

// AnswerHandler handles answer submissions
type AnswerHandler struct {
	questionService *service.QuestionService
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(questionService *service.QuestionService) *AnswerHandler {
	return &AnswerHandler{
		questionService: questionService,
	}
}

// Register registers the answer routes
func (h *AnswerHandler) Register(e *echo.Echo) {
	e.POST("/answers", h.AddAnswer)
}

// AddAnswerRequest accepts either an HTML form or a JSON body
type AddAnswerRequest struct {
	Content    string `json:"content" form:"content" validate:"required"`
	QuestionID string `json:"question_id" form:"questionID" validate:"required"`
}

// AddAnswer attaches an answer to an existing question
func (h *AnswerHandler) AddAnswer(c echo.Context) error {
	var req AddAnswerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	questionID, err := domain.ParseQuestionID(req.QuestionID)
	if err != nil {
		return err
	}

	if _, err := h.questionService.AddAnswer(c.Request().Context(), questionID, req.Content); err != nil {
		return err
	}

	return c.String(http.StatusCreated, "Answer successfully added.")
}
