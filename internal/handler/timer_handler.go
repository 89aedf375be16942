package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/model"
	"github.com/reteihq/attest-backend/internal/service"
	ws "github.com/reteihq/attest-backend/internal/websocket"
)

// tickInterval is how often the countdown display updates.
const tickInterval = 250 * time.Millisecond

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// TimerHandler streams the advisory countdown over WebSocket. The
// timer only reads session timing; it never mutates the session and
// never forces a finish when the limit runs out.
type TimerHandler struct {
	exam     *service.ExamService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(exam *service.ExamService, log zerolog.Logger, allowedOrigins []string) *TimerHandler {
	return &TimerHandler{
		exam:     exam,
		log:      log.With().Str("component", "timer_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// CountdownStream godoc
// WS /ws/v1/session/timer
// Pushes a tick every 250ms while the attestation is in progress,
// then a terminal finished event. The ticker stops with the
// connection, the request context or the session leaving IN_PROGRESS,
// whichever comes first.
func (h *TimerHandler) CountdownStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	state, err := h.exam.State(ctx)
	if err != nil {
		ws.WriteError(conn, "failed to read session state")
		return
	}
	if state.Status != model.StatusInProgress {
		ws.WriteError(conn, "no attestation in progress")
		return
	}

	h.log.Debug().Msg("Countdown stream opened")

	// Drain client frames so close frames are processed; the stream
	// itself is one-directional.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, err := h.exam.State(ctx)
			if err != nil {
				ws.WriteError(conn, "failed to read session state")
				return
			}
			if state.Status != model.StatusInProgress {
				ws.WriteTyped(conn, ws.FinishedResponse{
					Event:  ws.EventFinished,
					Status: string(state.Status),
				})
				return
			}
			if err := ws.WriteTyped(conn, ws.TickResponse{
				Event:            ws.EventTick,
				Countdown:        state.Countdown,
				RemainingSeconds: state.RemainingSeconds,
				TimeExceeded:     state.TimeExceeded,
			}); err != nil {
				// Client went away.
				return
			}
		}
	}
}
