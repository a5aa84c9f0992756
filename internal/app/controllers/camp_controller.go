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

// InterfaceCampController defines the camp controller interface
type InterfaceCampController interface {
	GetCamps()
	GetCamp()
	CreateCamp()
	UpdateCamp()
	DeleteCamp()
	GetExitCamp()
	GetCampOccupants()
}

// CampController handles camp requests
type CampController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCampController creates a new camp controller
func NewCampController(ctx *gin.Context, container *container.ServiceContainer) *CampController {
	return &CampController{
		Ctx:       ctx,
		Container: container,
	}
}

// CampRequest represents a camp create request
type CampRequest struct {
	Name     string `json:"name" binding:"required" example:"Jebel Ali Camp 2"`
	Code     string `json:"code" binding:"required" example:"JA-02"`
	Type     string `json:"type" example:"regular"` // induction, regular, exit
	Location string `json:"location" example:"Jebel Ali Industrial Area"`
	Capacity int    `json:"capacity" example:"400"`
}

// HandleCampFunc returns a Gin handler for the camp controller
func HandleCampFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCampController(ctx, container)

		switch method {
		case "getCamps":
			controller.GetCamps()
		case "getCamp":
			controller.GetCamp()
		case "createCamp":
			controller.CreateCamp()
		case "updateCamp":
			controller.UpdateCamp()
		case "deleteCamp":
			controller.DeleteCamp()
		case "getExitCamp":
			controller.GetExitCamp()
		case "getCampOccupants":
			controller.GetCampOccupants()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetCamps lists all camps
// @Summary List camps
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /camps [get]
func (c *CampController) GetCamps() {
	page, pageSize := paginationParams(c.Ctx)

	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	camps, total, err := campService.GetAllCamps(page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      camps,
	})
}

// 2. GetCamp fetches a single camp
// @Summary Get camp
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "camp id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /camps/{id} [get]
func (c *CampController) GetCamp() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid camp id")
		return
	}

	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	camp, err := campService.GetCampByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, camp)
}

// 3. CreateCamp registers a new camp
// @Summary Create camp
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CampRequest true "camp"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /camps [post]
func (c *CampController) CreateCamp() {
	var req CampRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	camp := &models.Camp{
		Name:     req.Name,
		Code:     req.Code,
		Type:     models.CampType(req.Type),
		Location: req.Location,
		Capacity: req.Capacity,
	}
	if camp.Type == "" {
		camp.Type = models.CampTypeRegular
	}

	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	if err := campService.CreateCamp(camp); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, camp)
}

// 4. UpdateCamp updates a camp
// @Summary Update camp
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "camp id"
// @Param request body map[string]interface{} true "fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /camps/{id} [put]
func (c *CampController) UpdateCamp() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid camp id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	camp, err := campService.UpdateCamp(uint(id), updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, camp)
}

// 5. DeleteCamp removes an empty camp
// @Summary Delete camp
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "camp id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /camps/{id} [delete]
func (c *CampController) DeleteCamp() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid camp id")
		return
	}

	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	if err := campService.DeleteCamp(uint(id)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}

// 6. GetExitCamp resolves the configured exit camp
// @Summary Resolve exit camp
// @Description Returns the camp where exit formalities are processed
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /camps/exit-camp [get]
func (c *CampController) GetExitCamp() {
	campService := c.Container.GetService("camp").(services.InterfaceCampService)
	camp, err := campService.ResolveExitCamp()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, camp)
}

// 7. GetCampOccupants lists the persons resident in a camp
// @Summary List camp occupants
// @Tags Camp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "camp id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /camps/{id}/occupants [get]
func (c *CampController) GetCampOccupants() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid camp id")
		return
	}

	occupantService := c.Container.GetService("occupant").(services.InterfaceOccupantService)
	occupants, err := occupantService.ListByCamp(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(occupants),
		"data":  occupants,
	})
}
