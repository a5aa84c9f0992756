package services

import (
	"fmt"
	"strings"

	"campmanager-service/internal/domain/models"
)

// The engine distinguishes five failure classes so callers can tell
// "you did something wrong" (validation) from "this is stale or already
// handled" (invalid transition) from "someone else got there first"
// (conflict). Nothing here is retried internally; retries are caller-driven.

// ValidationError reports a transition precondition that the caller can fix
// (missing field, incomplete allocation, decision not set). No mutation has
// occurred.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AllocationConflict names one person claimed by another active transfer
// request, together with where that request is taking them.
type AllocationConflict struct {
	Person         models.PersonRef `json:"person"`
	RequestID      uint             `json:"request_id"`
	Reference      string           `json:"reference"`
	TargetCampID   uint             `json:"target_camp_id"`
	TargetCampName string           `json:"target_camp_name,omitempty"`
}

// ConflictError reports every person of a candidate action that is already
// claimed by another active request, so the operator gets the complete
// remediation list in one pass.
type ConflictError struct {
	Conflicts []AllocationConflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s held by request #%d (target camp %d)", c.Person, c.RequestID, c.TargetCampID))
	}
	return "duplicate allocation: " + strings.Join(parts, "; ")
}

// InvalidTransitionError reports an action attempted from a state that does
// not permit it.
type InvalidTransitionError struct {
	Entity    string
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from state %q", e.Entity, e.Attempted, e.From)
}

// ConfigError reports a missing piece of system configuration (no exit camp
// resolvable). It is fatal to the triggering operation.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// PartialApplyError reports a multi-step transition that failed after some
// writes were already applied and could not be rolled back. Callers must
// retry the transition rather than assume success.
type PartialApplyError struct {
	Stage string
	Cause error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("transition partially applied at %s: %v", e.Stage, e.Cause)
}

func (e *PartialApplyError) Unwrap() error {
	return e.Cause
}

// PermissionError reports an actor whose role does not allow the attempted
// transition.
type PermissionError struct {
	Role   models.AdminRole
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
