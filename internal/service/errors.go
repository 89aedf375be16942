package service

import "errors"

// Engine errors. Handlers map these onto typed API error codes.
var (
	// ErrEmptyName rejects a login whose trimmed employee name is empty.
	ErrEmptyName = errors.New("employee name is required")

	// ErrInvalidTransition marks an operation invoked outside its valid
	// lifecycle state, e.g. answering before start or finishing twice.
	ErrInvalidTransition = errors.New("operation not valid in current session state")

	// ErrUnknownQuestion marks a question id absent from the attempt.
	ErrUnknownQuestion = errors.New("unknown question id")

	// ErrUnknownAnswer marks an answer text that is not one of the
	// question's fixed options.
	ErrUnknownAnswer = errors.New("answer is not an option of this question")
)
