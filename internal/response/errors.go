package response

// ErrCode is a typed error code enum for consistent API error
// identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrEmptyName      ErrCode = "EMPTY_EMPLOYEE_NAME"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Session lifecycle ─────────────────────────────────────────────
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrUnknownQuestion   ErrCode = "UNKNOWN_QUESTION"
	ErrUnknownAnswer     ErrCode = "UNKNOWN_ANSWER"

	// ─── Question bank ─────────────────────────────────────────────────
	ErrBankUnavailable ErrCode = "BANK_UNAVAILABLE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrEmptyName:
		return "Please enter the employee name."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrInvalidTransition:
		return "This action is not available in the current session state."
	case ErrUnknownQuestion:
		return "The question does not belong to this attestation."
	case ErrUnknownAnswer:
		return "The answer is not one of the question's options."
	case ErrBankUnavailable:
		return "The question bank is unavailable or malformed."
	case ErrNotFound:
		return "Resource not found."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
