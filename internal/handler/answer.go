package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-board/internal/config"
	"github.com/iliyamo/qa-board/internal/hub"
	"github.com/iliyamo/qa-board/internal/middleware"
	"github.com/iliyamo/qa-board/internal/queue"
	"github.com/iliyamo/qa-board/internal/repository"
)

// AnswerHandler bundles dependencies for answer endpoints.
type AnswerHandler struct {
	Cfg       config.Config
	Questions *repository.QuestionRepo
	Answers   *repository.AnswerRepo
	Hub       *hub.Hub
}

func NewAnswerHandler(cfg config.Config, q *repository.QuestionRepo, a *repository.AnswerRepo, h *hub.Hub) *AnswerHandler {
	return &AnswerHandler{Cfg: cfg, Questions: q, Answers: a, Hub: h}
}

type createAnswerReq struct {
	QuestionID uint64 `json:"questionid"`
	Answer     string `json:"answer"`
}

// Create persists an answer to an existing question, then fans a
// new_answer event out to all live subscribers. Answering an unknown
// question is a 404.
func (h *AnswerHandler) Create(c echo.Context) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}

	var req createAnswerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Answer = strings.TrimSpace(req.Answer)
	if req.QuestionID == 0 || req.Answer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "questionid/answer required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Questions.GetByID(ctx, req.QuestionID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	a, err := h.Answers.Create(ctx, req.QuestionID, uid, req.Answer)
	if err != nil {
		if err == repository.ErrNotFound {
			// Question deleted between the check and the insert.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create answer failed"})
	}

	h.Hub.Broadcast(hub.Event{Type: hub.EventNewAnswer, Data: a})
	if h.Cfg.EventMirror {
		go mirrorEvent(queue.BoardEvent{
			Kind:       hub.EventNewAnswer,
			QuestionID: a.QuestionID,
			AnswerID:   a.AnswerID,
			UserID:     a.UserID,
			Message:    a.Message,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, a)
}

// ListByQuestion returns all answers for one question. Cached like the
// question list.
func (h *AnswerHandler) ListByQuestion(c echo.Context) error {
	qid, err := strconv.ParseUint(c.Param("questionid"), 10, 64)
	if err != nil || qid == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid questionid"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	as, err := h.Answers.ListByQuestion(ctx, qid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, as)
}
