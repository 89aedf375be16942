package websocket

// Events pushed over the countdown stream (server → client).

type Event string

const (
	// EventTick carries the current countdown display. Sent every poll
	// interval while the attestation is in progress.
	EventTick Event = "tick"
	// EventFinished closes the stream once the session leaves
	// IN_PROGRESS.
	EventFinished Event = "finished"
	EventError    Event = "error"
)

// TickResponse is one countdown update.
type TickResponse struct {
	Event            Event   `json:"event"`
	Countdown        string  `json:"countdown"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	TimeExceeded     bool    `json:"time_exceeded"`
}

// FinishedResponse terminates the stream.
type FinishedResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
