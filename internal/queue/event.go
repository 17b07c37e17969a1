// Package queue defines message payloads exchanged over the message broker.
package queue

// BoardEventQueue is the durable queue board events are mirrored to.
const BoardEventQueue = "board.events"

// BoardEvent is published when a question or answer is created. It is
// a flat copy of the broadcast envelope so downstream consumers can
// log or trigger notifications without querying the primary database.
// Mirroring is best-effort and carries no delivery guarantee for the
// board itself.
type BoardEvent struct {
	Kind       string `json:"kind"` // new_question | new_answer
	QuestionID uint64 `json:"questionid"`
	AnswerID   uint64 `json:"answerid,omitempty"`
	UserID     uint64 `json:"userid"`
	Message    string `json:"message"`
	Status     string `json:"status,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
