package model

import (
	"fmt"
	"time"
)

// Status is the three-valued lifecycle tag on a question. The values
// mirror the `questions.status` ENUM in the database, so they must
// never be persisted in any other spelling.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusEscalated Status = "Escalated"
	StatusAnswered  Status = "Answered"
)

// ParseStatus converts a client-supplied string into a Status. Any
// value outside the enum is rejected; handlers translate the error
// into HTTP 400. No transition rules are enforced here: any legal
// status may replace any other.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusEscalated, StatusAnswered:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Question represents a row in the `questions` table. Questions are
// created with StatusPending and are never deleted; only the status
// field is mutated afterwards.
//
// Fields:
//  QuestionID – primary key identifier.
//  UserID     – author of the question (FK users.userid).
//  Message    – the question text.
//  Status     – Pending, Escalated or Answered.
//  CreatedAt  – creation timestamp.
type Question struct {
	QuestionID uint64    `json:"questionid"` // questions.questionid
	UserID     uint64    `json:"userid"`     // questions.userid
	Message    string    `json:"message"`    // questions.message
	Status     Status    `json:"status"`     // questions.status
	CreatedAt  time.Time `json:"created_at"` // questions.created_at
}
