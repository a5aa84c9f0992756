package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: bad request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: unauthorized.
	StatusUnauthorized = 401
	// StatusForbidden - 403: forbidden.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: state conflict.
	StatusConflict = 409
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: actor role may not perform this action.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// Account error codes (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: user already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: wrong password.
	ErrUserPasswordIncorrect
)

// Camp and bed error codes (102xxx).
const (
	// ErrCampNotFound - 404: camp not found.
	ErrCampNotFound int = iota + 102000
	// ErrCampAlreadyExist - 400: camp already exists.
	ErrCampAlreadyExist
	// ErrBedNotFound - 404: bed not found.
	ErrBedNotFound
	// ErrBedUnavailable - 409: bed is not available.
	ErrBedUnavailable
	// ErrExitCampNotConfigured - 500: no exit camp configured or resolvable.
	ErrExitCampNotConfigured
)

// Person error codes (103xxx).
const (
	// ErrPersonNotFound - 404: technician or external worker not found.
	ErrPersonNotFound int = iota + 103000
	// ErrPersonAlreadyExist - 400: person already exists.
	ErrPersonAlreadyExist
)

// Transfer engine error codes (104xxx).
const (
	// ErrTransferNotFound - 404: transfer request not found.
	ErrTransferNotFound int = iota + 104000
	// ErrTransferValidation - 400: transition precondition not met.
	ErrTransferValidation
	// ErrTransferConflict - 409: duplicate-allocation guard tripped.
	ErrTransferConflict
	// ErrInvalidTransition - 409: action not permitted from current state.
	ErrInvalidTransition
	// ErrPartialApply - 500: transition partially applied, caller must retry.
	ErrPartialApply
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

// Disciplinary / exit error codes (106xxx).
const (
	// ErrDisciplinaryNotFound - 404: disciplinary record not found.
	ErrDisciplinaryNotFound int = iota + 106000
	// ErrExitChoiceRequired - 400: termination requires an exit process choice.
	ErrExitChoiceRequired
	// ErrExitValidation - 400: exit formalities precondition not met.
	ErrExitValidation
)

// Migration error codes (109xxx).
const (
	// ErrMigrationFailed - 500: migration failed.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: connection failed.
	ErrConnectionFailed
)
