package controllers

import (
	"github.com/gin-gonic/gin"

	"campmanager-service/internal/app/middleware"
	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/domain/services/container"
	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// InterfaceExitController defines the exit formalities controller interface
type InterfaceExitController interface {
	ListInProcess()
	GetFormalities()
	UpdateChecklist()
	SetDeportDecision()
	AssignVehicle()
	ConfirmDeparture()
	CompleteFormalities()
}

// ExitController handles exit formalities requests
type ExitController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewExitController creates a new exit controller
func NewExitController(ctx *gin.Context, container *container.ServiceContainer) *ExitController {
	return &ExitController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleExitFunc returns a Gin handler for the exit controller
func HandleExitFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewExitController(ctx, container)

		switch method {
		case "listInProcess":
			controller.ListInProcess()
		case "getFormalities":
			controller.GetFormalities()
		case "updateChecklist":
			controller.UpdateChecklist()
		case "setDeportDecision":
			controller.SetDeportDecision()
		case "assignVehicle":
			controller.AssignVehicle()
		case "confirmDeparture":
			controller.ConfirmDeparture()
		case "completeFormalities":
			controller.CompleteFormalities()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. ListInProcess lists every person with a live exit process
// @Summary List exit processes
// @Description Overdue state is recomputed against the SLA clock on read
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /exits [get]
func (c *ExitController) ListInProcess() {
	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	records, err := exitService.ListInProcess()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(records),
		"data":  records,
	})
}

// 2. GetFormalities fetches one person's exit record
// @Summary Get exit record
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type (technician or external)"
// @Param id path int true "person id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /exits/{type}/{id} [get]
func (c *ExitController) GetFormalities() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.GetFormalities(ref)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}

// 3. UpdateChecklist sets checklist flags, in any order
// @Summary Update exit checklist
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type"
// @Param id path int true "person id"
// @Param request body services.ChecklistUpdate true "flags to set"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /exits/{type}/{id}/checklist [put]
func (c *ExitController) UpdateChecklist() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	var update services.ChecklistUpdate
	if err := c.Ctx.ShouldBindJSON(&update); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.UpdateChecklist(middleware.CurrentActor(c.Ctx), ref, update)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}

// 4. SetDeportDecision records the deport or stay decision
// @Summary Set deport decision
// @Description Requires the full checklist before the decision is accepted
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type"
// @Param id path int true "person id"
// @Param request body services.DeportDecision true "decision with flight details when deporting"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /exits/{type}/{id}/decision [put]
func (c *ExitController) SetDeportDecision() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	var decision services.DeportDecision
	if err := c.Ctx.ShouldBindJSON(&decision); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.SetDeportDecision(middleware.CurrentActor(c.Ctx), ref, decision)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}

// 5. AssignVehicle schedules the airport drop
// @Summary Assign drop vehicle
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type"
// @Param id path int true "person id"
// @Param request body services.VehicleAssignment true "vehicle and driver"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /exits/{type}/{id}/vehicle [put]
func (c *ExitController) AssignVehicle() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	var assignment services.VehicleAssignment
	if err := c.Ctx.ShouldBindJSON(&assignment); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.AssignVehicle(middleware.CurrentActor(c.Ctx), ref, assignment)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}

// 6. ConfirmDeparture confirms the person left the country
// @Summary Confirm departure
// @Description Terminal step of the deport branch; releases the bed
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type"
// @Param id path int true "person id"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /exits/{type}/{id}/departure [post]
func (c *ExitController) ConfirmDeparture() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.ConfirmDeparture(middleware.CurrentActor(c.Ctx), ref)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}

// 7. CompleteFormalities closes the stay branch
// @Summary Complete formalities (stay)
// @Description Terminal step when the person stays in country; releases the bed
// @Tags Exit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "person type"
// @Param id path int true "person id"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /exits/{type}/{id}/complete [post]
func (c *ExitController) CompleteFormalities() {
	ref, ok := personRefFromPath(c.Ctx)
	if !ok {
		return
	}

	exitService := c.Container.GetService("exit").(services.InterfaceExitService)
	record, err := exitService.CompleteFormalities(middleware.CurrentActor(c.Ctx), ref)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, record)
}
