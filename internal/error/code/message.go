package code

// Error code to message mapping
var codeMessageMap = map[int]string{
	// Common
	ErrSuccess:          "success",
	ErrUnknown:          "unknown error",
	ErrBind:             "request binding error",
	ErrValidation:       "request validation error",
	ErrTokenInvalid:     "invalid authentication token",
	ErrPermissionDenied: "permission denied",
	ErrTooManyRequests:  "too many requests",

	// Accounts
	ErrUserNotFound:          "user not found",
	ErrUserAlreadyExist:      "user already exists",
	ErrUserPasswordIncorrect: "incorrect password",

	// Camps and beds
	ErrCampNotFound:          "camp not found",
	ErrCampAlreadyExist:      "camp already exists",
	ErrBedNotFound:           "bed not found",
	ErrBedUnavailable:        "bed is not available",
	ErrExitCampNotConfigured: "exit camp is not configured",

	// Persons
	ErrPersonNotFound:     "person not found",
	ErrPersonAlreadyExist: "person already exists",

	// Transfer engine
	ErrTransferNotFound:   "transfer request not found",
	ErrTransferValidation: "transfer precondition not met",
	ErrTransferConflict:   "person already claimed by another active transfer",
	ErrInvalidTransition:  "action not permitted from current state",
	ErrPartialApply:       "transition partially applied, retry the action",

	// Disciplinary / exit
	ErrDisciplinaryNotFound: "disciplinary record not found",
	ErrExitChoiceRequired:   "exit process choice is required",
	ErrExitValidation:       "exit formalities precondition not met",

	// Database
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",

	// Migration
	ErrMigrationFailed:  "migration failed",
	ErrConnectionFailed: "connection failed",
}

// Error code to HTTP status mapping
var codeStatusMap = map[int]int{
	// Common
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// Accounts
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// Camps and beds
	ErrCampNotFound:          StatusNotFound,
	ErrCampAlreadyExist:      StatusBadRequest,
	ErrBedNotFound:           StatusNotFound,
	ErrBedUnavailable:        StatusConflict,
	ErrExitCampNotConfigured: StatusInternalServerError,

	// Persons
	ErrPersonNotFound:     StatusNotFound,
	ErrPersonAlreadyExist: StatusBadRequest,

	// Transfer engine
	ErrTransferNotFound:   StatusNotFound,
	ErrTransferValidation: StatusBadRequest,
	ErrTransferConflict:   StatusConflict,
	ErrInvalidTransition:  StatusConflict,
	ErrPartialApply:       StatusInternalServerError,

	// Disciplinary / exit
	ErrDisciplinaryNotFound: StatusNotFound,
	ErrExitChoiceRequired:   StatusBadRequest,
	ErrExitValidation:       StatusBadRequest,

	// Database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// Migration
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
