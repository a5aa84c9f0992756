package services

import "campmanager-service/internal/domain/models"

// Actor is the authenticated user on whose behalf a transition runs.
// Controllers build it from JWT claims; tests build it directly.
type Actor struct {
	Username string
	Role     models.AdminRole
}

// Capability checks live in the engine rather than the UI so the state
// machines refuse disallowed transitions even when called directly.

// CanCreateTransfer reports whether the actor may raise a transfer request.
func (a Actor) CanCreateTransfer() bool {
	switch a.Role {
	case models.RoleSystemAdmin, models.RoleCampManager:
		return true
	}
	return false
}

// CanApproveTransfer reports whether the actor may approve a request for
// dispatch.
func (a Actor) CanApproveTransfer() bool {
	return a.Role == models.RoleSystemAdmin || a.Role == models.RoleCampManager
}

// CanDispatchTransfer reports whether the actor may dispatch persons.
func (a Actor) CanDispatchTransfer() bool {
	return a.Role == models.RoleSystemAdmin || a.Role == models.RoleCampManager
}

// CanRecordDisciplinary reports whether the actor may record disciplinary
// actions.
func (a Actor) CanRecordDisciplinary() bool {
	switch a.Role {
	case models.RoleSystemAdmin, models.RoleCampManager, models.RoleWelfareOfficer:
		return true
	}
	return false
}

// CanManageExit reports whether the actor may drive exit formalities.
func (a Actor) CanManageExit() bool {
	switch a.Role {
	case models.RoleSystemAdmin, models.RoleCampManager, models.RoleWelfareOfficer:
		return true
	}
	return false
}

func (a Actor) requirePermission(ok bool, action string) error {
	if ok {
		return nil
	}
	return &PermissionError{Role: a.Role, Action: action}
}
