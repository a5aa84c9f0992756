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

// InterfaceTechnicianController defines the technician controller interface
type InterfaceTechnicianController interface {
	GetTechnicians()
	GetTechnician()
	CreateTechnician()
	UpdateTechnician()
	DeleteTechnician()
}

// TechnicianController handles technician master data requests
type TechnicianController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTechnicianController creates a new technician controller
func NewTechnicianController(ctx *gin.Context, container *container.ServiceContainer) *TechnicianController {
	return &TechnicianController{
		Ctx:       ctx,
		Container: container,
	}
}

// TechnicianRequest represents a technician create request
type TechnicianRequest struct {
	Name       string `json:"name" binding:"required" example:"Ramesh Kumar"`
	EmployeeNo string `json:"employee_no" binding:"required" example:"EMP-00412"`
	Trade      string `json:"trade" example:"electrician"`
	Phone      string `json:"phone" example:"0501234567"`
	CampID     *uint  `json:"camp_id" example:"1"`
}

// HandleTechnicianFunc returns a Gin handler for the technician controller
func HandleTechnicianFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTechnicianController(ctx, container)

		switch method {
		case "getTechnicians":
			controller.GetTechnicians()
		case "getTechnician":
			controller.GetTechnician()
		case "createTechnician":
			controller.CreateTechnician()
		case "updateTechnician":
			controller.UpdateTechnician()
		case "deleteTechnician":
			controller.DeleteTechnician()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetTechnicians lists technicians, filterable by camp and status
// @Summary List technicians
// @Tags Technician
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param camp_id query int false "filter by camp"
// @Param status query string false "filter by status"
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /technicians [get]
func (c *TechnicianController) GetTechnicians() {
	page, pageSize := paginationParams(c.Ctx)
	campID, _ := strconv.Atoi(c.Ctx.DefaultQuery("camp_id", "0"))
	status := models.PersonStatus(c.Ctx.Query("status"))

	technicianService := c.Container.GetService("technician").(services.InterfaceTechnicianService)
	technicians, total, err := technicianService.GetAllTechnicians(uint(campID), status, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      technicians,
	})
}

// 2. GetTechnician fetches a single technician
// @Summary Get technician
// @Tags Technician
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "technician id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /technicians/{id} [get]
func (c *TechnicianController) GetTechnician() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid technician id")
		return
	}

	technicianService := c.Container.GetService("technician").(services.InterfaceTechnicianService)
	technician, err := technicianService.GetTechnicianByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, technician)
}

// 3. CreateTechnician registers a new technician
// @Summary Create technician
// @Tags Technician
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TechnicianRequest true "technician"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /technicians [post]
func (c *TechnicianController) CreateTechnician() {
	var req TechnicianRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	technician := &models.Technician{
		Name:       req.Name,
		EmployeeNo: req.EmployeeNo,
		Trade:      req.Trade,
		Phone:      req.Phone,
		CampID:     req.CampID,
	}

	technicianService := c.Container.GetService("technician").(services.InterfaceTechnicianService)
	if err := technicianService.CreateTechnician(technician); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, technician)
}

// 4. UpdateTechnician updates technician master data. Camp, bed and status
// are owned by the transfer engine and rejected here.
// @Summary Update technician
// @Tags Technician
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "technician id"
// @Param request body map[string]interface{} true "fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /technicians/{id} [put]
func (c *TechnicianController) UpdateTechnician() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid technician id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	technicianService := c.Container.GetService("technician").(services.InterfaceTechnicianService)
	technician, err := technicianService.UpdateTechnician(uint(id), updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, technician)
}

// 5. DeleteTechnician removes a technician without a bed assignment
// @Summary Delete technician
// @Tags Technician
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "technician id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /technicians/{id} [delete]
func (c *TechnicianController) DeleteTechnician() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid technician id")
		return
	}

	technicianService := c.Container.GetService("technician").(services.InterfaceTechnicianService)
	if err := technicianService.DeleteTechnician(uint(id)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}
