package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-board/internal/config"
	"github.com/iliyamo/qa-board/internal/hub"
	"github.com/iliyamo/qa-board/internal/middleware"
	"github.com/iliyamo/qa-board/internal/queue"
	"github.com/iliyamo/qa-board/internal/repository"
	queue_publisher "github.com/iliyamo/qa-board/internal/service"
)

// QuestionHandler bundles dependencies for question endpoints. Every
// successful write broadcasts through the hub; the AMQP mirror is
// optional and never affects the response.
type QuestionHandler struct {
	Cfg       config.Config
	Questions *repository.QuestionRepo
	Hub       *hub.Hub
}

func NewQuestionHandler(cfg config.Config, q *repository.QuestionRepo, h *hub.Hub) *QuestionHandler {
	return &QuestionHandler{Cfg: cfg, Questions: q, Hub: h}
}

type createQuestionReq struct {
	Question string `json:"question"`
}

// Create persists a new question for the authenticated caller, then
// fans a new_question event out to all live subscribers. Broadcast is
// best-effort: a persisted question whose broadcast fails is not
// rolled back.
func (h *QuestionHandler) Create(c echo.Context) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}

	var req createQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Questions.Create(ctx, uid, req.Question)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create question failed"})
	}

	h.Hub.Broadcast(hub.Event{Type: hub.EventNewQuestion, Data: q})
	if h.Cfg.EventMirror {
		go mirrorEvent(queue.BoardEvent{
			Kind:       hub.EventNewQuestion,
			QuestionID: q.QuestionID,
			UserID:     q.UserID,
			Message:    q.Message,
			Status:     string(q.Status),
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, q)
}

// List returns all questions. The route sits behind the Redis response
// cache, so repeated reads within the TTL do not hit the database.
func (h *QuestionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qs, err := h.Questions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, qs)
}

// mirrorEvent publishes a board event to the broker with its own
// timeout, detached from the request lifecycle. Errors are already
// logged by the publisher.
func mirrorEvent(ev queue.BoardEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishBoardEvent(ctx, ev)
}
