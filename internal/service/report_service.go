package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/model"
)

// timestampLayout is the human-readable format used in share text.
const timestampLayout = "02 Jan 2006 15:04:05"

// ReportService builds scored reports from finished sessions. A report
// is a pure projection: building one never mutates the session, and an
// identical session always yields an identical report.
type ReportService struct {
	questions []model.Question
	byID      map[string]model.Question
	duration  time.Duration
	log       zerolog.Logger
}

// NewReportService creates a ReportService over the loaded bank.
func NewReportService(questions []model.Question, duration time.Duration, log zerolog.Logger) *ReportService {
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &ReportService{
		questions: questions,
		byID:      byID,
		duration:  duration,
		log:       log.With().Str("component", "report_service").Logger(),
	}
}

// Build computes the report of a finished session. Questions appear in
// the order they were presented. Unanswered questions never count as
// correct.
func (r *ReportService) Build(sess *model.Session) (*model.Report, error) {
	if sess.Status != model.StatusFinished || sess.StartedAt == nil || sess.FinishedAt == nil {
		return nil, fmt.Errorf("build report: %w", ErrInvalidTransition)
	}

	lines := make([]model.ReportLine, 0, len(sess.QuestionOrder))
	correctCount := 0
	for i, qid := range sess.QuestionOrder {
		q, ok := r.byID[qid]
		if !ok {
			return nil, fmt.Errorf("build report: question %q: %w", qid, ErrUnknownQuestion)
		}
		right, _ := q.CorrectAnswer()
		selected, answered := sess.SelectedAnswers[qid]
		correct := answered && selected == right
		if correct {
			correctCount++
		}
		lines = append(lines, model.ReportLine{
			Number:        i + 1,
			QuestionText:  q.Text,
			Selected:      selected,
			Answered:      answered,
			CorrectAnswer: right,
			Correct:       correct,
		})
	}

	total := len(lines)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(correctCount) / float64(total) * 100))
	}

	elapsed := sess.FinishedAt.Sub(*sess.StartedAt)
	employee := sess.Employee
	if employee == nil {
		employee = &model.Employee{}
	}

	return &model.Report{
		EmployeeName: employee.Name,
		EmployeeRole: employee.Role,
		EmployeeLine: employeeLine(employee),
		StartedAt:    *sess.StartedAt,
		FinishedAt:   *sess.FinishedAt,
		Elapsed:      formatMMSS(elapsed),
		TimeExceeded: elapsed > r.duration,
		CorrectCount: correctCount,
		TotalCount:   total,
		Percentage:   pct,
		Lines:        lines,
	}, nil
}

// ShareText renders the plain-text summary handed to the share
// collaborator (messenger paste, clipboard fallback).
func (r *ReportService) ShareText(report *model.Report) string {
	timeStatus := fmt.Sprintf("Within the %d-minute limit", int(r.duration.Minutes()))
	if report.TimeExceeded {
		timeStatus = fmt.Sprintf("Failed: exceeded the %d-minute limit", int(r.duration.Minutes()))
	}

	var b strings.Builder
	b.WriteString("Attestation report\n")
	b.WriteString("Employee: " + report.EmployeeLine + "\n")
	b.WriteString("Started: " + report.StartedAt.Format(timestampLayout) + "\n")
	b.WriteString("Finished: " + report.FinishedAt.Format(timestampLayout) + "\n")
	fmt.Fprintf(&b, "Result: %d/%d (%d%%)\n", report.CorrectCount, report.TotalCount, report.Percentage)
	b.WriteString("Time status: " + timeStatus)
	return b.String()
}

// employeeLine formats the identity line: "Name", "Name (Role)", or
// the role alone if the name is somehow absent.
func employeeLine(emp *model.Employee) string {
	name := strings.TrimSpace(emp.Name)
	role := strings.TrimSpace(emp.Role)
	switch {
	case name == "" && role == "":
		return "—"
	case role == "":
		return name
	case name == "":
		return role
	default:
		return fmt.Sprintf("%s (%s)", name, role)
	}
}

// formatMMSS renders a non-negative duration as MM:SS.
func formatMMSS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSec := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}
