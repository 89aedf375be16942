package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reteihq/attest-backend/internal/model"
	"github.com/reteihq/attest-backend/internal/response"
	"github.com/reteihq/attest-backend/internal/service"
	"github.com/reteihq/attest-backend/internal/validator"
)

// SessionHandler exposes the attestation engine over HTTP. It is a
// thin translation layer: bind, call the engine, map errors to codes.
type SessionHandler struct {
	exam    *service.ExamService
	reports *service.ReportService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(exam *service.ExamService, reports *service.ReportService) *SessionHandler {
	return &SessionHandler{exam: exam, reports: reports}
}

// failFromErr maps engine errors onto API error codes.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyName):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyName)
	case errors.Is(err, service.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
	case errors.Is(err, service.ErrUnknownQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestion)
	case errors.Is(err, service.ErrUnknownAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownAnswer)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Login godoc
// POST /api/v1/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.exam.Login(c.Request.Context(), req.Name, req.Role)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// Start godoc
// POST /api/v1/session/start
// Starts a fresh attempt, or resumes an in-progress one untouched.
func (h *SessionHandler) Start(c *gin.Context) {
	sess, err := h.exam.Start(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// SelectAnswer godoc
// POST /api/v1/session/answer
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.exam.SelectAnswer(c.Request.Context(), req.QuestionID, req.Answer)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// Navigate godoc
// POST /api/v1/session/navigate
// "next" on the last question finishes the attempt.
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.exam.Navigate(c.Request.Context(), req.Direction)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// Finish godoc
// POST /api/v1/session/finish
func (h *SessionHandler) Finish(c *gin.Context) {
	sess, err := h.exam.Finish(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// Reset godoc
// POST /api/v1/session/reset
// Wipes everything and returns to the unauthenticated state.
func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.exam.Reset(c.Request.Context()); err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "reset"})
}

// State godoc
// GET /api/v1/session/state
// The read model a client renders from, including after a reload.
func (h *SessionHandler) State(c *gin.Context) {
	state, err := h.exam.State(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// Paper godoc
// GET /api/v1/session/paper
// The full attempt in presentation order, correct flags stripped.
func (h *SessionHandler) Paper(c *gin.Context) {
	paper, err := h.exam.Paper(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": paper})
}

// Report godoc
// GET /api/v1/session/report
func (h *SessionHandler) Report(c *gin.Context) {
	report, err := h.exam.Report(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// ShareText godoc
// GET /api/v1/session/report/share-text
// Plain-text summary for the share/clipboard collaborator.
func (h *SessionHandler) ShareText(c *gin.Context) {
	report, err := h.exam.Report(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"text": h.reports.ShareText(report)})
}
