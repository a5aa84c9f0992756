package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// failWithServiceError maps the engine's typed errors onto the response
// envelope. Conflict responses carry the full conflict list so the operator
// can fix every collision in one pass.
func failWithServiceError(ctx *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
		transitionErr *services.InvalidTransitionError
		configErr     *services.ConfigError
		partialErr    *services.PartialApplyError
		permissionErr *services.PermissionError
		notFoundErr   *services.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		response.FailWithMessage(ctx, code.ErrValidation, validationErr.Error(), nil)
	case errors.As(err, &conflictErr):
		response.FailWithMessage(ctx, code.ErrTransferConflict, conflictErr.Error(), gin.H{
			"conflicts": conflictErr.Conflicts,
		})
	case errors.As(err, &transitionErr):
		response.FailWithMessage(ctx, code.ErrInvalidTransition, transitionErr.Error(), nil)
	case errors.As(err, &configErr):
		response.FailWithMessage(ctx, code.ErrExitCampNotConfigured, configErr.Error(), nil)
	case errors.As(err, &partialErr):
		response.FailWithMessage(ctx, code.ErrPartialApply, partialErr.Error(), nil)
	case errors.As(err, &permissionErr):
		response.FailWithMessage(ctx, code.ErrPermissionDenied, permissionErr.Error(), nil)
	case errors.As(err, &notFoundErr):
		response.FailWithMessage(ctx, code.ErrRecordNotFound, notFoundErr.Error(), nil)
	default:
		response.FailWithMessage(ctx, code.ErrDatabase, err.Error(), nil)
	}
}
