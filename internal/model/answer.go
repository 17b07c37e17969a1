package model

// Answer represents a row in the `answers` table. An answer always
// references an existing question; deletion is explicit and final.
//
// Fields:
//  AnswerID   – primary key identifier.
//  QuestionID – question being answered (FK questions.questionid).
//  UserID     – author of the answer (FK users.userid).
//  Message    – the answer text.
type Answer struct {
	AnswerID   uint64 `json:"answerid"`   // answers.answerid
	QuestionID uint64 `json:"questionid"` // answers.questionid
	UserID     uint64 `json:"userid"`     // answers.userid
	Message    string `json:"message"`    // answers.message
}
