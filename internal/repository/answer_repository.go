package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/qa-board/internal/model"
)

type AnswerRepo struct{ DB *sql.DB }

func NewAnswerRepo(db *sql.DB) *AnswerRepo { return &AnswerRepo{DB: db} }

// Create inserts an answer and returns the full persisted row. The
// handler verifies the question exists first; MySQL error 1452
// (foreign key violation) is still mapped to ErrNotFound in case the
// question vanishes between the check and the insert.
func (r *AnswerRepo) Create(ctx context.Context, questionID, userID uint64, message string) (model.Answer, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO answers (questionid, userid, message) VALUES (?,?,?)",
		questionID, userID, message)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			return model.Answer{}, ErrNotFound
		}
		return model.Answer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Answer{}, err
	}
	return model.Answer{
		AnswerID:   uint64(id),
		QuestionID: questionID,
		UserID:     userID,
		Message:    message,
	}, nil
}

// ListByQuestion returns all answers for a question, oldest first.
func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uint64) ([]model.Answer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT answerid,questionid,userid,message FROM answers WHERE questionid=? ORDER BY answerid",
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Answer, 0)
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.AnswerID, &a.QuestionID, &a.UserID, &a.Message); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID fetches an answer by id. sql.ErrNoRows maps to ErrNotFound.
func (r *AnswerRepo) GetByID(ctx context.Context, id uint64) (model.Answer, error) {
	var a model.Answer
	err := r.DB.QueryRowContext(ctx,
		"SELECT answerid,questionid,userid,message FROM answers WHERE answerid=? LIMIT 1",
		id).Scan(&a.AnswerID, &a.QuestionID, &a.UserID, &a.Message)
	if err == sql.ErrNoRows {
		return model.Answer{}, ErrNotFound
	}
	return a, err
}

// Delete removes an answer. Deleting a nonexistent answer returns
// ErrNotFound.
func (r *AnswerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM answers WHERE answerid=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
