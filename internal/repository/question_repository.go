package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/qa-board/internal/model"
)

type QuestionRepo struct{ DB *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{DB: db} }

// Create inserts a question with status Pending and returns the full
// persisted row. CreatedAt is set here rather than by the database so
// the value broadcast to subscribers matches what was stored.
func (r *QuestionRepo) Create(ctx context.Context, userID uint64, message string) (model.Question, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO questions (userid, message, status, created_at) VALUES (?,?,?,?)",
		userID, message, string(model.StatusPending), now)
	if err != nil {
		return model.Question{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Question{}, err
	}
	return model.Question{
		QuestionID: uint64(id),
		UserID:     userID,
		Message:    message,
		Status:     model.StatusPending,
		CreatedAt:  now,
	}, nil
}

// List returns all questions, oldest first.
func (r *QuestionRepo) List(ctx context.Context) ([]model.Question, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT questionid,userid,message,status,created_at FROM questions ORDER BY questionid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Question, 0)
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.QuestionID, &q.UserID, &q.Message, &q.Status, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// GetByID fetches a question by id. sql.ErrNoRows maps to ErrNotFound.
func (r *QuestionRepo) GetByID(ctx context.Context, id uint64) (model.Question, error) {
	var q model.Question
	err := r.DB.QueryRowContext(ctx,
		"SELECT questionid,userid,message,status,created_at FROM questions WHERE questionid=? LIMIT 1",
		id).Scan(&q.QuestionID, &q.UserID, &q.Message, &q.Status, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Question{}, ErrNotFound
	}
	return q, err
}

// UpdateStatus sets the status of an existing question. Zero affected
// rows can mean either "no such question" or "status unchanged", so
// existence is checked by the caller via GetByID before updating.
func (r *QuestionRepo) UpdateStatus(ctx context.Context, id uint64, st model.Status) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET status=? WHERE questionid=?", string(st), id)
	return err
}
