package model

import "time"

// ReportLine is the per-question verdict of a finished attempt,
// numbered in the order the questions were presented.
type ReportLine struct {
	Number        int    `json:"number"`
	QuestionText  string `json:"question_text"`
	Selected      string `json:"selected,omitempty"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// Report is the read-only scored summary of a finished session.
// Rebuilding it from the same session always yields the same report.
type Report struct {
	EmployeeName string `json:"employee_name"`
	EmployeeRole string `json:"employee_role,omitempty"`
	// EmployeeLine is "Name" or "Name (Role)".
	EmployeeLine string `json:"employee_line"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Elapsed is the MM:SS display of FinishedAt - StartedAt.
	Elapsed      string `json:"elapsed"`
	TimeExceeded bool   `json:"time_exceeded"`

	CorrectCount int `json:"correct_count"`
	TotalCount   int `json:"total_count"`
	Percentage   int `json:"percentage"`

	Lines []ReportLine `json:"lines"`
}
