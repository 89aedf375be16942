package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/model"
)

// memStore is an in-memory SessionStore. It round-trips sessions
// through JSON on every Load/Save, so each operation sees exactly what
// a process restart would see.
type memStore struct {
	raw []byte
}

func (m *memStore) Load(_ context.Context) (*model.Session, error) {
	if m.raw == nil {
		return model.NewSession(), nil
	}
	sess := model.NewSession()
	if err := json.Unmarshal(m.raw, sess); err != nil {
		return model.NewSession(), nil
	}
	return sess, nil
}

func (m *memStore) Save(_ context.Context, sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

func (m *memStore) Reset(_ context.Context) error {
	m.raw = nil
	return nil
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Text: "First question", Answers: []model.Answer{
			{Text: "a", Correct: true}, {Text: "b"}, {Text: "c"},
		}},
		{ID: "q2", Text: "Second question", Answers: []model.Answer{
			{Text: "d"}, {Text: "e", Correct: true}, {Text: "f"},
		}},
		{ID: "q3", Text: "Third question", Answers: []model.Answer{
			{Text: "g"}, {Text: "h"}, {Text: "i", Correct: true},
		}},
	}
}

func newTestEngine(st SessionStore) *ExamService {
	questions := testQuestions()
	log := zerolog.Nop()
	reports := NewReportService(questions, 30*time.Minute, log)
	return NewExamService(st, reports, nil, questions, 30*time.Minute, log)
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		empName  string
		role     string
		wantErr  error
		wantName string
	}{
		{name: "empty name", empName: "", wantErr: ErrEmptyName},
		{name: "whitespace name", empName: "   ", wantErr: ErrEmptyName},
		{name: "valid name", empName: "Ana", role: "Cashier", wantName: "Ana"},
		{name: "trimmed name", empName: "  Ana  ", role: " Cashier ", wantName: "Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(&memStore{})
			sess, err := e.Login(context.Background(), tt.empName, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if sess.Status != model.StatusIdle {
				t.Errorf("status = %s, want %s", sess.Status, model.StatusIdle)
			}
			if sess.Employee.Name != tt.wantName {
				t.Errorf("name = %q, want %q", sess.Employee.Name, tt.wantName)
			}
			if sess.Employee.Role != "Cashier" {
				t.Errorf("role = %q, want %q", sess.Employee.Role, "Cashier")
			}
		})
	}
}

func TestLoginRejectedOutsideUnauthenticated(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	if _, err := e.Login(ctx, "Ana", ""); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := e.Login(ctx, "Boris", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Login() error = %v, want ErrInvalidTransition", err)
	}

	// Validation failure leaves state untouched.
	sess, _ := e.store.Load(ctx)
	if sess.Employee.Name != "Ana" {
		t.Errorf("employee = %q, want Ana", sess.Employee.Name)
	}
}

func TestStartFixesOrderings(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	if _, err := e.Start(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Start() before login error = %v, want ErrInvalidTransition", err)
	}

	mustLogin(t, e)
	sess, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if sess.Status != model.StatusInProgress {
		t.Fatalf("status = %s, want %s", sess.Status, model.StatusInProgress)
	}
	if sess.StartedAt == nil || sess.FinishedAt != nil {
		t.Fatalf("timestamps: started=%v finished=%v", sess.StartedAt, sess.FinishedAt)
	}
	if sess.CurrentIndex != 0 {
		t.Errorf("current index = %d, want 0", sess.CurrentIndex)
	}
	if len(sess.SelectedAnswers) != 0 {
		t.Errorf("selected answers = %v, want empty", sess.SelectedAnswers)
	}

	assertPermutation(t, sess.QuestionOrder, []string{"q1", "q2", "q3"})
	for _, q := range testQuestions() {
		assertPermutation(t, sess.AnswerOrder[q.ID], q.AnswerTexts())
	}
}

func TestStartResumeDoesNotReshuffle(t *testing.T) {
	st := &memStore{}
	e := newTestEngine(st)
	ctx := context.Background()

	mustLogin(t, e)
	first, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	qid := first.QuestionOrder[0]
	answer := first.AnswerOrder[qid][0]
	if _, err := e.SelectAnswer(ctx, qid, answer); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	if _, err := e.Navigate(ctx, model.DirectionNext); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	// A second Start (e.g. re-entering after a reload) must continue
	// the attempt, not reset it.
	resumed, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("resume Start() error = %v", err)
	}
	assertSameOrder(t, first.QuestionOrder, resumed.QuestionOrder)
	for qid, order := range first.AnswerOrder {
		assertSameOrder(t, order, resumed.AnswerOrder[qid])
	}
	if resumed.CurrentIndex != 1 {
		t.Errorf("current index = %d, want 1", resumed.CurrentIndex)
	}
	if resumed.SelectedAnswers[qid] != answer {
		t.Errorf("selection = %q, want %q", resumed.SelectedAnswers[qid], answer)
	}
	if !first.StartedAt.Equal(*resumed.StartedAt) {
		t.Errorf("started at changed on resume: %v vs %v", first.StartedAt, resumed.StartedAt)
	}
}

func TestReloadResumeAcrossEngines(t *testing.T) {
	st := &memStore{}
	ctx := context.Background()

	e1 := newTestEngine(st)
	mustLogin(t, e1)
	started, _ := e1.Start(ctx)
	qid := started.QuestionOrder[1]
	answer := started.AnswerOrder[qid][2]
	if _, err := e1.SelectAnswer(ctx, qid, answer); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}

	// Fresh engine over the same store simulates a process restart.
	e2 := newTestEngine(st)
	resumed, err := e2.Start(ctx)
	if err != nil {
		t.Fatalf("Start() after restart error = %v", err)
	}
	assertSameOrder(t, started.QuestionOrder, resumed.QuestionOrder)
	for id, order := range started.AnswerOrder {
		assertSameOrder(t, order, resumed.AnswerOrder[id])
	}
	if resumed.SelectedAnswers[qid] != answer {
		t.Errorf("selection lost across restart: %v", resumed.SelectedAnswers)
	}
}

func TestSelectAnswer(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	if _, err := e.SelectAnswer(ctx, "q1", "a"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("SelectAnswer() before start error = %v, want ErrInvalidTransition", err)
	}

	mustLogin(t, e)
	started, _ := e.Start(ctx)
	qid := started.QuestionOrder[0]

	if _, err := e.SelectAnswer(ctx, "nope", "a"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("unknown question error = %v, want ErrUnknownQuestion", err)
	}
	if _, err := e.SelectAnswer(ctx, qid, "not-an-option"); !errors.Is(err, ErrUnknownAnswer) {
		t.Fatalf("unknown answer error = %v, want ErrUnknownAnswer", err)
	}

	first := started.AnswerOrder[qid][0]
	second := started.AnswerOrder[qid][1]

	sess, err := e.SelectAnswer(ctx, qid, first)
	if err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	if sess.SelectedAnswers[qid] != first {
		t.Errorf("selection = %q, want %q", sess.SelectedAnswers[qid], first)
	}

	// Overwriting is allowed; ordering and cursor stay fixed.
	sess, err = e.SelectAnswer(ctx, qid, second)
	if err != nil {
		t.Fatalf("SelectAnswer() overwrite error = %v", err)
	}
	if sess.SelectedAnswers[qid] != second {
		t.Errorf("selection = %q, want %q", sess.SelectedAnswers[qid], second)
	}
	if sess.CurrentIndex != 0 {
		t.Errorf("selection moved cursor to %d", sess.CurrentIndex)
	}
	assertSameOrder(t, started.QuestionOrder, sess.QuestionOrder)
	assertSameOrder(t, started.AnswerOrder[qid], sess.AnswerOrder[qid])
}

func TestNavigate(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	mustLogin(t, e)
	if _, err := e.Navigate(ctx, model.DirectionNext); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Navigate() before start error = %v, want ErrInvalidTransition", err)
	}
	if _, err := e.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// previous at the first question is a no-op.
	sess, err := e.Navigate(ctx, model.DirectionPrevious)
	if err != nil {
		t.Fatalf("Navigate(previous) error = %v", err)
	}
	if sess.CurrentIndex != 0 {
		t.Errorf("index = %d, want 0", sess.CurrentIndex)
	}

	// next walks forward without finishing until the last question.
	for want := 1; want <= 2; want++ {
		sess, err = e.Navigate(ctx, model.DirectionNext)
		if err != nil {
			t.Fatalf("Navigate(next) error = %v", err)
		}
		if sess.CurrentIndex != want {
			t.Fatalf("index = %d, want %d", sess.CurrentIndex, want)
		}
		if sess.Status != model.StatusInProgress {
			t.Fatalf("finished early at index %d", want)
		}
	}

	sess, err = e.Navigate(ctx, model.DirectionPrevious)
	if err != nil {
		t.Fatalf("Navigate(previous) error = %v", err)
	}
	if sess.CurrentIndex != 1 {
		t.Errorf("index = %d, want 1", sess.CurrentIndex)
	}

	// Back to the last question, then next finishes.
	if _, err := e.Navigate(ctx, model.DirectionNext); err != nil {
		t.Fatalf("Navigate(next) error = %v", err)
	}
	sess, err = e.Navigate(ctx, model.DirectionNext)
	if err != nil {
		t.Fatalf("Navigate(next) on last error = %v", err)
	}
	if sess.Status != model.StatusFinished {
		t.Errorf("status = %s, want %s", sess.Status, model.StatusFinished)
	}
	if sess.FinishedAt == nil {
		t.Error("finished at not set")
	}
}

func TestFinishedIsTerminal(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	mustLogin(t, e)
	started, _ := e.Start(ctx)
	if _, err := e.Finish(ctx); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	qid := started.QuestionOrder[0]
	answer := started.AnswerOrder[qid][0]

	invalid := []struct {
		name string
		op   func() error
	}{
		{"finish twice", func() error { _, err := e.Finish(ctx); return err }},
		{"select after finish", func() error { _, err := e.SelectAnswer(ctx, qid, answer); return err }},
		{"navigate after finish", func() error { _, err := e.Navigate(ctx, model.DirectionNext); return err }},
		{"start after finish", func() error { _, err := e.Start(ctx); return err }},
		{"login after finish", func() error { _, err := e.Login(ctx, "Boris", ""); return err }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
		})
	}

	// Reset is the single exception.
	if err := e.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	sess, err := e.store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reset error = %v", err)
	}
	if sess.Status != model.StatusUnauthenticated {
		t.Errorf("status = %s, want %s", sess.Status, model.StatusUnauthenticated)
	}
	if sess.Employee != nil || len(sess.SelectedAnswers) != 0 {
		t.Errorf("reset left state behind: %+v", sess)
	}
}

func TestEndToEndScenario(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	if _, err := e.Login(ctx, "Ana", "Cashier"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	started, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Answer the first presented question correctly.
	firstID := started.QuestionOrder[0]
	correct := correctAnswerOf(t, firstID)
	if _, err := e.SelectAnswer(ctx, firstID, correct); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}

	// next, skip the second question, next again: with three questions
	// this lands on the last one and must NOT finish yet.
	if _, err := e.Navigate(ctx, model.DirectionNext); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	sess, err := e.Navigate(ctx, model.DirectionNext)
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if sess.Status != model.StatusInProgress {
		t.Fatal("finished before reaching the true last index")
	}

	// next on the last question finishes.
	sess, err = e.Navigate(ctx, model.DirectionNext)
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if sess.Status != model.StatusFinished {
		t.Fatalf("status = %s, want %s", sess.Status, model.StatusFinished)
	}

	report, err := e.Report(ctx)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.CorrectCount != 1 || report.TotalCount != 3 {
		t.Errorf("score = %d/%d, want 1/3", report.CorrectCount, report.TotalCount)
	}
	if report.Percentage != 33 {
		t.Errorf("percentage = %d, want 33", report.Percentage)
	}
	if report.EmployeeLine != "Ana (Cashier)" {
		t.Errorf("employee line = %q, want %q", report.EmployeeLine, "Ana (Cashier)")
	}
}

func TestStateCountdown(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := base
	e.now = func() time.Time { return now }

	// Before start the full limit is shown.
	state, err := e.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state.Countdown != "30:00" {
		t.Errorf("countdown = %q, want 30:00", state.Countdown)
	}
	if state.TimeExceeded {
		t.Error("time exceeded before start")
	}

	mustLogin(t, e)
	if _, err := e.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	now = base.Add(10 * time.Minute)
	state, _ = e.State(ctx)
	if state.Countdown != "20:00" {
		t.Errorf("countdown = %q, want 20:00", state.Countdown)
	}
	if state.Question == nil || state.Progress == nil {
		t.Fatal("in-progress state missing question or progress")
	}
	if state.Progress.Index != 1 || state.Progress.Total != 3 {
		t.Errorf("progress = %+v, want 1/3", state.Progress)
	}

	// Past the limit the countdown clamps at zero; the flag flips but
	// the attestation keeps running.
	now = base.Add(31 * time.Minute)
	state, _ = e.State(ctx)
	if state.Countdown != "00:00" {
		t.Errorf("countdown = %q, want 00:00", state.Countdown)
	}
	if !state.TimeExceeded {
		t.Error("time exceeded flag not set past the limit")
	}
	if state.Status != model.StatusInProgress {
		t.Errorf("status = %s; the limit must never force a finish", state.Status)
	}

	// After finishing, the countdown freezes at the finish instant.
	if _, err := e.Finish(ctx); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	now = base.Add(2 * time.Hour)
	state, _ = e.State(ctx)
	if state.Countdown != "00:00" {
		t.Errorf("countdown = %q, want frozen 00:00", state.Countdown)
	}
	if state.Question != nil {
		t.Error("finished state still exposes a question")
	}
}

func TestPaper(t *testing.T) {
	e := newTestEngine(&memStore{})
	ctx := context.Background()

	if _, err := e.Paper(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Paper() before start error = %v, want ErrInvalidTransition", err)
	}

	mustLogin(t, e)
	started, _ := e.Start(ctx)

	paper, err := e.Paper(ctx)
	if err != nil {
		t.Fatalf("Paper() error = %v", err)
	}
	if len(paper) != 3 {
		t.Fatalf("paper has %d questions, want 3", len(paper))
	}
	for i, view := range paper {
		if view.ID != started.QuestionOrder[i] {
			t.Errorf("paper[%d] = %s, want %s", i, view.ID, started.QuestionOrder[i])
		}
		assertSameOrder(t, started.AnswerOrder[view.ID], view.Answers)
	}
}

func mustLogin(t *testing.T, e *ExamService) {
	t.Helper()
	if _, err := e.Login(context.Background(), "Ana", "Cashier"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}

func correctAnswerOf(t *testing.T, qid string) string {
	t.Helper()
	for _, q := range testQuestions() {
		if q.ID == qid {
			text, ok := q.CorrectAnswer()
			if !ok {
				t.Fatalf("question %s has no correct answer", qid)
			}
			return text
		}
	}
	t.Fatalf("unknown question %s", qid)
	return ""
}

func assertPermutation(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	seen := make(map[string]int)
	for _, v := range got {
		seen[v]++
	}
	for _, v := range want {
		seen[v]--
	}
	for v, n := range seen {
		if n != 0 {
			t.Fatalf("%v is not a permutation of %v (mismatch on %q)", got, want, v)
		}
	}
}

func assertSameOrder(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("length mismatch: %v vs %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("order changed at %d: %v vs %v", i, want, got)
		}
	}
}
