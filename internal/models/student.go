package models

import "time"

type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer records one student's response to a paper question. Correctness is
// an id comparison: the answered usage against the question's correct usage.
type Answer struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	QuestionID int64     `json:"question_id"`
	ActionID   int64     `json:"action_id"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ── Request/Response Types ──────────────────────────────

type CreateStudentRequest struct {
	Name string `json:"name"`
}

type SubmitAnswerRequest struct {
	StudentID int64 `json:"student_id"`
	ActionID  int64 `json:"action_id"`
}

type SubmitAnswerResponse struct {
	Correct         bool  `json:"correct"`
	CorrectActionID int64 `json:"correct_action_id"`
}
