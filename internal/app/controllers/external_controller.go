package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/domain/services/container"
	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// InterfaceExternalController defines the external personnel controller interface
type InterfaceExternalController interface {
	GetExternals()
	GetExternal()
	CreateExternal()
	UpdateExternal()
	DeleteExternal()
}

// ExternalController handles external personnel master data requests
type ExternalController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewExternalController creates a new external personnel controller
func NewExternalController(ctx *gin.Context, container *container.ServiceContainer) *ExternalController {
	return &ExternalController{
		Ctx:       ctx,
		Container: container,
	}
}

// ExternalRequest represents an external worker create request
type ExternalRequest struct {
	Name       string `json:"name" binding:"required" example:"Noor Alam"`
	AgencyName string `json:"agency_name" example:"Gulf Manpower LLC"`
	PassNo     string `json:"pass_no" binding:"required" example:"GP-20391"`
	Trade      string `json:"trade" example:"mason"`
	Phone      string `json:"phone" example:"0507654321"`
	CampID     *uint  `json:"camp_id" example:"1"`
}

// HandleExternalFunc returns a Gin handler for the external personnel controller
func HandleExternalFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewExternalController(ctx, container)

		switch method {
		case "getExternals":
			controller.GetExternals()
		case "getExternal":
			controller.GetExternal()
		case "createExternal":
			controller.CreateExternal()
		case "updateExternal":
			controller.UpdateExternal()
		case "deleteExternal":
			controller.DeleteExternal()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetExternals lists external personnel, filterable by camp and status
// @Summary List external personnel
// @Tags External
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param camp_id query int false "filter by camp"
// @Param status query string false "filter by status"
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /externals [get]
func (c *ExternalController) GetExternals() {
	page, pageSize := paginationParams(c.Ctx)
	campID, _ := strconv.Atoi(c.Ctx.DefaultQuery("camp_id", "0"))
	status := models.PersonStatus(c.Ctx.Query("status"))

	externalService := c.Container.GetService("external").(services.InterfaceExternalService)
	externals, total, err := externalService.GetAllExternals(uint(campID), status, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      externals,
	})
}

// 2. GetExternal fetches a single external worker
// @Summary Get external worker
// @Tags External
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "external personnel id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /externals/{id} [get]
func (c *ExternalController) GetExternal() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid external personnel id")
		return
	}

	externalService := c.Container.GetService("external").(services.InterfaceExternalService)
	person, err := externalService.GetExternalByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, person)
}

// 3. CreateExternal registers a new external worker
// @Summary Create external worker
// @Tags External
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExternalRequest true "external worker"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /externals [post]
func (c *ExternalController) CreateExternal() {
	var req ExternalRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	person := &models.ExternalPersonnel{
		Name:       req.Name,
		AgencyName: req.AgencyName,
		PassNo:     req.PassNo,
		Trade:      req.Trade,
		Phone:      req.Phone,
		CampID:     req.CampID,
	}

	externalService := c.Container.GetService("external").(services.InterfaceExternalService)
	if err := externalService.CreateExternal(person); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, person)
}

// 4. UpdateExternal updates external worker master data. Camp, bed and
// status are owned by the transfer engine and rejected here.
// @Summary Update external worker
// @Tags External
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "external personnel id"
// @Param request body map[string]interface{} true "fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /externals/{id} [put]
func (c *ExternalController) UpdateExternal() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid external personnel id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	externalService := c.Container.GetService("external").(services.InterfaceExternalService)
	person, err := externalService.UpdateExternal(uint(id), updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, person)
}

// 5. DeleteExternal removes an external worker without a bed assignment
// @Summary Delete external worker
// @Tags External
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "external personnel id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /externals/{id} [delete]
func (c *ExternalController) DeleteExternal() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid external personnel id")
		return
	}

	externalService := c.Container.GetService("external").(services.InterfaceExternalService)
	if err := externalService.DeleteExternal(uint(id)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}
