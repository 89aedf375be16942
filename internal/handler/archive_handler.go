package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reteihq/attest-backend/internal/repository"
	"github.com/reteihq/attest-backend/internal/response"
)

const defaultArchiveLimit = 50

// ArchiveHandler serves the history of archived attempts.
type ArchiveHandler struct {
	repo *repository.ArchiveRepository
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(repo *repository.ArchiveRepository) *ArchiveHandler {
	return &ArchiveHandler{repo: repo}
}

// ListAttempts godoc
// GET /api/v1/archive/attempts?limit=N
func (h *ArchiveHandler) ListAttempts(c *gin.Context) {
	limit := defaultArchiveLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		limit = n
	}

	attempts, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []repository.ArchivedAttempt{}
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
