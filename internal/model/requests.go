package model

// LoginRequest is the payload for employee login.
type LoginRequest struct {
	Name string `json:"name" binding:"required,max=120"`
	Role string `json:"role" binding:"omitempty,max=120"`
}

// SelectAnswerRequest records or overwrites an answer selection.
type SelectAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// Navigation directions accepted by NavigateRequest.
const (
	DirectionPrevious = "previous"
	DirectionNext     = "next"
)

// NavigateRequest moves the cursor. "next" on the last question
// finishes the attempt.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=previous next"`
}
