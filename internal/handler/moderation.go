package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-board/internal/config"
	"github.com/iliyamo/qa-board/internal/middleware"
	"github.com/iliyamo/qa-board/internal/model"
	"github.com/iliyamo/qa-board/internal/repository"
)

// ModerationHandler implements the authenticated moderation
// operations: deleting answers and changing question status. Whether a
// caller may moderate resources they do not own is a deployment
// decision (config.ModerationPolicy), not something guessed here.
type ModerationHandler struct {
	Cfg       config.Config
	Questions *repository.QuestionRepo
	Answers   *repository.AnswerRepo
}

func NewModerationHandler(cfg config.Config, q *repository.QuestionRepo, a *repository.AnswerRepo) *ModerationHandler {
	return &ModerationHandler{Cfg: cfg, Questions: q, Answers: a}
}

// moderationAllowed applies the configured policy: under owner_only a
// caller may only moderate resources they authored.
func (h *ModerationHandler) moderationAllowed(owner, caller uint64) error {
	if h.Cfg.ModerationPolicy == config.ModerationOwnerOnly && owner != caller {
		return repository.ErrForbidden
	}
	return nil
}

type changeStatusReq struct {
	QuestionID uint64 `json:"questionid"`
	NewStatus  string `json:"new_status"`
}

// ChangeStatus sets a question's status to any of the three legal
// values. No linear Pending→Escalated→Answered progression is
// enforced. An unknown status is a 400 and leaves the stored status
// untouched.
func (h *ModerationHandler) ChangeStatus(c echo.Context) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}

	var req changeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, err := model.ParseStatus(req.NewStatus)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_status must be Pending, Escalated or Answered"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.moderationAllowed(q.UserID, uid); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}

	if err := h.Questions.UpdateStatus(ctx, q.QuestionID, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "status updated", "new_status": st})
}

// DeleteAnswer removes an answer by id (answerid query parameter).
// Deleting a nonexistent answer is a 404.
func (h *ModerationHandler) DeleteAnswer(c echo.Context) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}

	aid, err := strconv.ParseUint(c.QueryParam("answerid"), 10, 64)
	if err != nil || aid == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answerid"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Answers.GetByID(ctx, aid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.moderationAllowed(a.UserID, uid); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}

	if err := h.Answers.Delete(ctx, aid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "answer deleted"})
}
