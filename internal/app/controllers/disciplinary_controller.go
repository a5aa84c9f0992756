package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/app/middleware"
	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/domain/services/container"
	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// InterfaceDisciplinaryController defines the disciplinary controller interface
type InterfaceDisciplinaryController interface {
	GetActionTypes()
	CreateActionType()
	GetPersonActions()
	GetAction()
	RecordAction()
	TriggerExitProcess()
}

// DisciplinaryController handles disciplinary case requests
type DisciplinaryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDisciplinaryController creates a new disciplinary controller
func NewDisciplinaryController(ctx *gin.Context, container *container.ServiceContainer) *DisciplinaryController {
	return &DisciplinaryController{
		Ctx:       ctx,
		Container: container,
	}
}

// ActionTypeRequest represents an action type create request
type ActionTypeRequest struct {
	Name        string `json:"name" binding:"required" example:"termination"`
	LegacyCode  string `json:"legacy_code" example:"TERM"`
	Description string `json:"description" example:"employment terminated for cause"`
}

// RecordActionRequest represents a disciplinary action record request
type RecordActionRequest struct {
	Person            models.PersonRef `json:"person" binding:"required"`
	ActionTypeID      uint             `json:"action_type_id" binding:"required" example:"1"`
	ActionDate        *time.Time       `json:"action_date,omitempty"`
	Description       string           `json:"description" example:"repeated absence without leave"`
	TerminationReason string           `json:"termination_reason,omitempty" example:"absconding"`
	ExitProcessChoice string           `json:"exit_process_choice,omitempty" example:"camp_transfer"`
}

// TriggerExitRequest carries the exit choice for a deferred follow-up
type TriggerExitRequest struct {
	Choice string `json:"choice" binding:"required" example:"direct_deport"`
}

// HandleDisciplinaryFunc returns a Gin handler for the disciplinary controller
func HandleDisciplinaryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDisciplinaryController(ctx, container)

		switch method {
		case "getActionTypes":
			controller.GetActionTypes()
		case "createActionType":
			controller.CreateActionType()
		case "getPersonActions":
			controller.GetPersonActions()
		case "getAction":
			controller.GetAction()
		case "recordAction":
			controller.RecordAction()
		case "triggerExitProcess":
			controller.TriggerExitProcess()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetActionTypes lists the configured disciplinary action types
// @Summary List action types
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /disciplinary/types [get]
func (c *DisciplinaryController) GetActionTypes() {
	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	types, err := disciplinaryService.GetAllActionTypes()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, types)
}

// 2. CreateActionType registers a new action type
// @Summary Create action type
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ActionTypeRequest true "action type"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /disciplinary/types [post]
func (c *DisciplinaryController) CreateActionType() {
	var req ActionTypeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	actionType := &models.DisciplinaryActionType{
		Name:        req.Name,
		LegacyCode:  req.LegacyCode,
		Description: req.Description,
	}

	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	if err := disciplinaryService.CreateActionType(actionType); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, actionType)
}

// 3. GetPersonActions lists the disciplinary history of one person
// @Summary List person's disciplinary actions
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type (technician or external)"
// @Param id path int true "person id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /disciplinary/persons/{type}/{id} [get]
func (c *DisciplinaryController) GetPersonActions() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	actions, err := disciplinaryService.GetActionsByPerson(ref)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, actions)
}

// 4. GetAction fetches one disciplinary action
// @Summary Get disciplinary action
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "action id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /disciplinary/actions/{id} [get]
func (c *DisciplinaryController) GetAction() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid action id")
		return
	}

	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	action, err := disciplinaryService.GetActionByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, action)
}

// 5. RecordAction records a disciplinary case. A termination requires an
// exit process choice up front; a resignation triggers a follow-up instead.
// @Summary Record disciplinary action
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordActionRequest true "disciplinary action"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /disciplinary/actions [post]
func (c *DisciplinaryController) RecordAction() {
	var req RecordActionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	actionDate := time.Now()
	if req.ActionDate != nil {
		actionDate = *req.ActionDate
	}

	action := &models.DisciplinaryAction{
		PersonType:        req.Person.Type,
		PersonID:          req.Person.ID,
		ActionTypeID:      req.ActionTypeID,
		ActionDate:        actionDate,
		Description:       req.Description,
		TerminationReason: req.TerminationReason,
		ExitProcessChoice: models.ExitProcessChoice(req.ExitProcessChoice),
	}

	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	recorded, err := disciplinaryService.RecordAction(middleware.CurrentActor(c.Ctx), action)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, recorded)
}

// 6. TriggerExitProcess runs the deferred exit trigger of a recorded action
// @Summary Trigger exit process
// @Description Completes the follow-up of a resignation by choosing the exit
// process
// @Tags Disciplinary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "action id"
// @Param request body TriggerExitRequest true "exit process choice"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /disciplinary/actions/{id}/trigger-exit [post]
func (c *DisciplinaryController) TriggerExitProcess() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid action id")
		return
	}

	var req TriggerExitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	disciplinaryService := c.Container.GetService("disciplinary").(services.InterfaceDisciplinaryService)
	if err := disciplinaryService.TriggerExitProcess(middleware.CurrentActor(c.Ctx), uint(id), models.ExitProcessChoice(req.Choice)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}

// personRefFromPath parses the type/id pair of person-scoped routes
func personRefFromPath(ctx *gin.Context) (models.PersonRef, bool) {
	personType := models.PersonType(ctx.Param("type"))
	if personType != models.PersonTypeTechnician && personType != models.PersonTypeExternal {
		response.ParamError(ctx, "person type must be technician or external")
		return models.PersonRef{}, false
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		response.ParamError(ctx, "invalid person id")
		return models.PersonRef{}, false
	}
	return models.PersonRef{Type: personType, ID: uint(id)}, true
}
