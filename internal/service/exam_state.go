package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reteihq/attest-backend/internal/model"
)

// QuestionView is one question as presented to the client: options in
// the attempt's fixed order, correct flags stripped.
type QuestionView struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Answers  []string `json:"answers"`
	Selected string   `json:"selected,omitempty"`
}

// Progress is the "N / total" position display.
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// SessionState is the read model the presentation layer renders from.
// Producing it never mutates the session.
type SessionState struct {
	Status           model.SessionStatus `json:"status"`
	Employee         *model.Employee     `json:"employee,omitempty"`
	Progress         *Progress           `json:"progress,omitempty"`
	Question         *QuestionView       `json:"question,omitempty"`
	RemainingSeconds float64             `json:"remaining_seconds"`
	// Countdown is the MM:SS display of RemainingSeconds.
	Countdown    string `json:"countdown"`
	TimeExceeded bool   `json:"time_exceeded"`
}

// State returns the current read-only view of the session: phase,
// identity, the current question with its fixed option order, progress
// and the advisory countdown. Valid in every phase.
func (e *ExamService) State(ctx context.Context) (*SessionState, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	remaining := e.remaining(sess)
	st := &SessionState{
		Status:           sess.Status,
		Employee:         sess.Employee,
		RemainingSeconds: remaining.Seconds(),
		Countdown:        formatMMSS(remaining),
		TimeExceeded:     e.timeExceeded(sess),
	}

	if sess.Status == model.StatusInProgress || sess.Status == model.StatusFinished {
		st.Progress = &Progress{Index: sess.CurrentIndex + 1, Total: sess.QuestionCount()}
	}
	if sess.Status == model.StatusInProgress {
		view, err := e.questionView(sess, sess.CurrentIndex)
		if err != nil {
			return nil, err
		}
		st.Question = view
	}
	return st, nil
}

// Paper returns the whole attempt in presentation order, correct flags
// stripped. Valid only while IN_PROGRESS.
func (e *ExamService) Paper(ctx context.Context) ([]QuestionView, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, fmt.Errorf("paper: %w", ErrInvalidTransition)
	}

	views := make([]QuestionView, 0, sess.QuestionCount())
	for i := range sess.QuestionOrder {
		v, err := e.questionView(sess, i)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (e *ExamService) questionView(sess *model.Session, index int) (*QuestionView, error) {
	if index < 0 || index >= sess.QuestionCount() {
		return nil, fmt.Errorf("question index %d out of range", index)
	}
	qid := sess.QuestionOrder[index]
	q, ok := e.byID[qid]
	if !ok {
		return nil, fmt.Errorf("question view %q: %w", qid, ErrUnknownQuestion)
	}
	return &QuestionView{
		ID:       q.ID,
		Text:     q.Text,
		Answers:  sess.AnswerOrder[qid],
		Selected: sess.SelectedAnswers[qid],
	}, nil
}

// remaining computes the advisory countdown: the full limit before
// start, frozen at the finish instant afterwards, clamped at zero.
func (e *ExamService) remaining(sess *model.Session) time.Duration {
	if sess.StartedAt == nil {
		return e.duration
	}
	ref := e.now()
	if sess.FinishedAt != nil {
		ref = *sess.FinishedAt
	}
	remaining := e.duration - ref.Sub(*sess.StartedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// timeExceeded reports whether elapsed time is strictly over the
// limit. Exactly at the limit is not exceeded.
func (e *ExamService) timeExceeded(sess *model.Session) bool {
	if sess.StartedAt == nil {
		return false
	}
	ref := e.now()
	if sess.FinishedAt != nil {
		ref = *sess.FinishedAt
	}
	return ref.Sub(*sess.StartedAt) > e.duration
}
