package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/model"
	"github.com/reteihq/attest-backend/internal/random"
)

// SessionStore is the persistence contract the engine mutates through.
// Implemented by store.SessionStore; tests substitute an in-memory one.
type SessionStore interface {
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Reset(ctx context.Context) error
}

// ReportArchiver receives finished reports for durable archiving.
// Implemented by store.ArchiveQueue. May be nil when archiving is
// disabled.
type ReportArchiver interface {
	Enqueue(ctx context.Context, report *model.Report) error
}

// ExamService is the attestation state machine. Every mutating
// operation loads the session, validates the transition, mutates and
// persists — the operation is not done until the session is saved.
type ExamService struct {
	store     SessionStore
	reports   *ReportService
	archive   ReportArchiver
	questions []model.Question
	byID      map[string]model.Question
	duration  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewExamService creates the engine over a validated question bank.
// archive may be nil.
func NewExamService(
	st SessionStore,
	reports *ReportService,
	archive ReportArchiver,
	questions []model.Question,
	duration time.Duration,
	log zerolog.Logger,
) *ExamService {
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &ExamService{
		store:     st,
		reports:   reports,
		archive:   archive,
		questions: questions,
		byID:      byID,
		duration:  duration,
		now:       time.Now,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// Login sets the employee identity and moves the session to IDLE.
// The name must be non-empty after trimming.
func (e *ExamService) Login(ctx context.Context, name, role string) (*model.Session, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusUnauthenticated {
		return nil, fmt.Errorf("login: %w", ErrInvalidTransition)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	sess.Employee = &model.Employee{Name: name, Role: strings.TrimSpace(role)}
	sess.Status = model.StatusIdle

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info().Str("employee", name).Msg("Employee logged in")
	return sess, nil
}

// Start begins a fresh attempt from IDLE, fixing a random question
// order and an independent random answer order per question. Calling
// Start on an attempt already IN_PROGRESS is an idempotent resume: the
// existing orders, cursor and selections are kept untouched.
func (e *ExamService) Start(ctx context.Context) (*model.Session, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	switch sess.Status {
	case model.StatusInProgress:
		// Resume. Never reshuffle a running attempt.
		return sess, nil
	case model.StatusIdle:
	default:
		return nil, fmt.Errorf("start: %w", ErrInvalidTransition)
	}

	ids := make([]string, 0, len(e.questions))
	for _, q := range e.questions {
		ids = append(ids, q.ID)
	}

	now := e.now()
	sess.StartedAt = &now
	sess.FinishedAt = nil
	sess.CurrentIndex = 0
	sess.SelectedAnswers = make(map[string]string)
	sess.QuestionOrder = random.Shuffle(ids)
	sess.AnswerOrder = make(map[string][]string, len(e.questions))
	for _, q := range e.questions {
		sess.AnswerOrder[q.ID] = random.Shuffle(q.AnswerTexts())
	}
	sess.Status = model.StatusInProgress

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info().Int("questions", len(ids)).Msg("Attestation started")
	return sess, nil
}

// SelectAnswer records or overwrites the selection for a question. It
// never advances the cursor and never reorders the question's options.
func (e *ExamService) SelectAnswer(ctx context.Context, questionID, answer string) (*model.Session, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, fmt.Errorf("select answer: %w", ErrInvalidTransition)
	}

	options, ok := sess.AnswerOrder[questionID]
	if !ok {
		return nil, fmt.Errorf("select answer %q: %w", questionID, ErrUnknownQuestion)
	}
	valid := false
	for _, opt := range options {
		if opt == answer {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("select answer %q: %w", questionID, ErrUnknownAnswer)
	}

	sess.SelectedAnswers[questionID] = answer

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Navigate moves the cursor. "previous" on the first question is a
// no-op; "next" on the last question finishes the attempt — next and
// finish are the same action there, so the user never faces a separate
// submit decision.
func (e *ExamService) Navigate(ctx context.Context, direction string) (*model.Session, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, fmt.Errorf("navigate: %w", ErrInvalidTransition)
	}

	switch direction {
	case model.DirectionPrevious:
		if sess.CurrentIndex > 0 {
			sess.CurrentIndex--
		}
	case model.DirectionNext:
		if sess.CurrentIndex >= sess.QuestionCount()-1 {
			return e.finish(ctx, sess)
		}
		sess.CurrentIndex++
	default:
		return nil, fmt.Errorf("navigate: unknown direction %q", direction)
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Finish ends the attempt explicitly. Valid only while IN_PROGRESS;
// a finished session can never be reopened except by a full reset.
func (e *ExamService) Finish(ctx context.Context) (*model.Session, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.StatusInProgress {
		return nil, fmt.Errorf("finish: %w", ErrInvalidTransition)
	}
	return e.finish(ctx, sess)
}

func (e *ExamService) finish(ctx context.Context, sess *model.Session) (*model.Session, error) {
	now := e.now()
	sess.FinishedAt = &now
	sess.Status = model.StatusFinished

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	report, err := e.reports.Build(sess)
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Int("correct", report.CorrectCount).
		Int("total", report.TotalCount).
		Bool("time_exceeded", report.TimeExceeded).
		Msg("Attestation finished")

	// Archiving is best-effort; a queue failure must not undo a finish.
	if e.archive != nil {
		if err := e.archive.Enqueue(ctx, report); err != nil {
			e.log.Error().Err(err).Msg("Report archive enqueue failed")
		}
	}
	return sess, nil
}

// Reset wipes all persisted state unconditionally, returning the app
// to the unauthenticated first-run state.
func (e *ExamService) Reset(ctx context.Context) error {
	if err := e.store.Reset(ctx); err != nil {
		return err
	}
	e.log.Info().Msg("Session reset")
	return nil
}

// Report builds the scored report of the finished session.
func (e *ExamService) Report(ctx context.Context) (*model.Report, error) {
	sess, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return e.reports.Build(sess)
}
