package model

import "time"

// SessionStatus enumerates the attestation session lifecycle phases.
// Transitions are strictly ordered:
// UNAUTHENTICATED -> IDLE -> IN_PROGRESS -> FINISHED.
// FINISHED is terminal; only a full reset returns to UNAUTHENTICATED.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "UNAUTHENTICATED"
	StatusIdle            SessionStatus = "IDLE"
	StatusInProgress      SessionStatus = "IN_PROGRESS"
	StatusFinished        SessionStatus = "FINISHED"
)

// Employee is the identity captured at login. Immutable for the
// lifetime of the session.
type Employee struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Session is the full mutable state of one attestation attempt.
// It is the single source of truth and is persisted after every
// state-mutating operation.
type Session struct {
	Status     SessionStatus `json:"status"`
	Employee   *Employee     `json:"employee,omitempty"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`

	// QuestionOrder is a permutation of all bank question ids, fixed
	// once per attempt. Never reshuffled mid-attempt, including across
	// process restarts.
	QuestionOrder []string `json:"question_order"`

	// AnswerOrder maps question id to a fixed permutation of that
	// question's answer texts, shuffled independently per question at
	// attempt start.
	AnswerOrder map[string][]string `json:"answer_order"`

	CurrentIndex int `json:"current_index"`

	// SelectedAnswers holds only answered questions; values are answer
	// texts taken from AnswerOrder of the same question.
	SelectedAnswers map[string]string `json:"selected_answers"`
}

// NewSession returns an empty unauthenticated session.
func NewSession() *Session {
	return &Session{
		Status:          StatusUnauthenticated,
		AnswerOrder:     make(map[string][]string),
		SelectedAnswers: make(map[string]string),
	}
}

// QuestionCount returns the number of questions in the active attempt.
func (s *Session) QuestionCount() int {
	return len(s.QuestionOrder)
}
