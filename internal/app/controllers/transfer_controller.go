package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/app/middleware"
	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/domain/services/container"
	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// InterfaceTransferController defines the transfer controller interface
type InterfaceTransferController interface {
	GetTransferRequests()
	GetTransferRequest()
	CreateTransferRequest()
	AllocateBeds()
	ApproveForDispatch()
	RejectAllocation()
	CancelRequest()
	DispatchTechnicians()
	ConfirmArrival()
}

// TransferController handles transfer request lifecycle requests
type TransferController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTransferController creates a new transfer controller
func NewTransferController(ctx *gin.Context, container *container.ServiceContainer) *TransferController {
	return &TransferController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateTransferRequestBody represents a transfer request creation body
type CreateTransferRequestBody struct {
	SourceCampID uint               `json:"source_camp_id" binding:"required" example:"1"`
	TargetCampID uint               `json:"target_camp_id" binding:"required" example:"2"`
	Reason       string             `json:"reason" binding:"required" example:"project_move"`
	Persons      []models.PersonRef `json:"persons" binding:"required"`
	Remarks      string             `json:"remarks" example:"project ramp-down at JA-01"`
}

// AllocateBedsBody represents a bed allocation body
type AllocateBedsBody struct {
	Allocations []services.BedAllocation `json:"allocations" binding:"required"`
}

// ReasonBody carries the mandatory reason of a rejection or cancellation
type ReasonBody struct {
	Reason string `json:"reason" example:"rooms flooded, reallocate next week"`
}

// ConfirmArrivalBody identifies the person whose arrival is being confirmed
type ConfirmArrivalBody struct {
	Person models.PersonRef `json:"person" binding:"required"`
}

// HandleTransferFunc returns a Gin handler for the transfer controller
func HandleTransferFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTransferController(ctx, container)

		switch method {
		case "getTransferRequests":
			controller.GetTransferRequests()
		case "getTransferRequest":
			controller.GetTransferRequest()
		case "createTransferRequest":
			controller.CreateTransferRequest()
		case "allocateBeds":
			controller.AllocateBeds()
		case "approveForDispatch":
			controller.ApproveForDispatch()
		case "rejectAllocation":
			controller.RejectAllocation()
		case "cancelRequest":
			controller.CancelRequest()
		case "dispatchTechnicians":
			controller.DispatchTechnicians()
		case "confirmArrival":
			controller.ConfirmArrival()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// requestID parses the transfer request id path parameter
func (c *TransferController) requestID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id < 1 {
		response.ParamError(c.Ctx, "invalid transfer request id")
		return 0, false
	}
	return uint(id), true
}

// 1. GetTransferRequests lists transfer requests
// @Summary List transfer requests
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "filter by status"
// @Param camp_id query int false "filter by source or target camp"
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /transfers [get]
func (c *TransferController) GetTransferRequests() {
	page, pageSize := paginationParams(c.Ctx)
	status := models.TransferStatus(c.Ctx.Query("status"))
	campID, _ := strconv.Atoi(c.Ctx.DefaultQuery("camp_id", "0"))

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	requests, total, err := transferService.GetAllTransferRequests(status, uint(campID), page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      requests,
	})
}

// 2. GetTransferRequest fetches one transfer request with its members
// @Summary Get transfer request
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /transfers/{id} [get]
func (c *TransferController) GetTransferRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.GetTransferRequestByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 3. CreateTransferRequest opens a new transfer request
// @Summary Create transfer request
// @Description Opens a request in pending_allocation for the listed persons
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransferRequestBody true "transfer request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /transfers [post]
func (c *TransferController) CreateTransferRequest() {
	var body CreateTransferRequestBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.CreateTransferRequest(middleware.CurrentActor(c.Ctx), services.CreateTransferInput{
		SourceCampID: body.SourceCampID,
		TargetCampID: body.TargetCampID,
		Reason:       models.MovementReason(body.Reason),
		Persons:      body.Persons,
		Remarks:      body.Remarks,
	})
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 4. AllocateBeds allocates one target-camp bed per member
// @Summary Allocate beds
// @Description Reserves the listed beds and moves the request to beds_allocated
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Param request body AllocateBedsBody true "bed allocations, one per member"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /transfers/{id}/allocate [post]
func (c *TransferController) AllocateBeds() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var body AllocateBedsBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.AllocateBeds(middleware.CurrentActor(c.Ctx), id, body.Allocations)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 5. ApproveForDispatch approves an allocated request for dispatch
// @Summary Approve for dispatch
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /transfers/{id}/approve [post]
func (c *TransferController) ApproveForDispatch() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.ApproveForDispatch(middleware.CurrentActor(c.Ctx), id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 6. RejectAllocation rejects an allocation and releases its beds
// @Summary Reject allocation
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Param request body ReasonBody true "rejection reason, mandatory"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /transfers/{id}/reject [post]
func (c *TransferController) RejectAllocation() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var body ReasonBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.RejectAllocation(middleware.CurrentActor(c.Ctx), id, body.Reason)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 7. CancelRequest cancels a request that has not been dispatched
// @Summary Cancel transfer request
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Param request body ReasonBody false "cancellation reason"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /transfers/{id}/cancel [post]
func (c *TransferController) CancelRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var body ReasonBody
	_ = c.Ctx.ShouldBindJSON(&body)

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.CancelRequest(middleware.CurrentActor(c.Ctx), id, body.Reason)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 8. DispatchTechnicians moves the members to the target camp in transit
// @Summary Dispatch members
// @Description Re-runs the duplicate guard, then moves every member to the
// target camp in pending_arrival
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /transfers/{id}/dispatch [post]
func (c *TransferController) DispatchTechnicians() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.DispatchTechnicians(middleware.CurrentActor(c.Ctx), id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}

// 9. ConfirmArrival confirms one member's arrival at the target camp
// @Summary Confirm arrival
// @Description Occupies the member's reserved bed; the request completes when
// every member has arrived
// @Tags Transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer request id"
// @Param request body ConfirmArrivalBody true "arriving person"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /transfers/{id}/arrival [post]
func (c *TransferController) ConfirmArrival() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var body ConfirmArrivalBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	transferService := c.Container.GetService("transfer").(services.InterfaceTransferService)
	request, err := transferService.ConfirmArrival(middleware.CurrentActor(c.Ctx), id, body.Person)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, request)
}
