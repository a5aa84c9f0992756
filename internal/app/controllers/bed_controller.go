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

// InterfaceBedController defines the bed controller interface
type InterfaceBedController interface {
	GetBeds()
	GetBed()
	CreateBed()
	SeedBeds()
	DeleteBed()
	GetBedCounts()
}

// BedController handles bed inventory requests
type BedController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBedController creates a new bed controller
func NewBedController(ctx *gin.Context, container *container.ServiceContainer) *BedController {
	return &BedController{
		Ctx:       ctx,
		Container: container,
	}
}

// BedRequest represents a single bed create request
type BedRequest struct {
	CampID     uint   `json:"camp_id" binding:"required" example:"1"`
	RoomNumber string `json:"room_number" binding:"required" example:"R-104"`
	BedNumber  string `json:"bed_number" binding:"required" example:"B-03"`
}

// SeedBedsRequest represents a bulk bed provisioning request
type SeedBedsRequest struct {
	CampID     uint   `json:"camp_id" binding:"required" example:"1"`
	RoomNumber string `json:"room_number" binding:"required" example:"R-104"`
	Count      int    `json:"count" binding:"required" example:"8"`
}

// HandleBedFunc returns a Gin handler for the bed controller
func HandleBedFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBedController(ctx, container)

		switch method {
		case "getBeds":
			controller.GetBeds()
		case "getBed":
			controller.GetBed()
		case "createBed":
			controller.CreateBed()
		case "seedBeds":
			controller.SeedBeds()
		case "deleteBed":
			controller.DeleteBed()
		case "getBedCounts":
			controller.GetBedCounts()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetBeds lists beds, filterable by camp and status
// @Summary List beds
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param camp_id query int false "filter by camp"
// @Param status query string false "filter by status (available, reserved, occupied)"
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /beds [get]
func (c *BedController) GetBeds() {
	page, pageSize := paginationParams(c.Ctx)
	campID, _ := strconv.Atoi(c.Ctx.DefaultQuery("camp_id", "0"))
	status := models.BedStatus(c.Ctx.Query("status"))

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	beds, total, err := bedService.GetAllBeds(uint(campID), status, page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      beds,
	})
}

// 2. GetBed fetches a single bed
// @Summary Get bed
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "bed id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /beds/{id} [get]
func (c *BedController) GetBed() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid bed id")
		return
	}

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	bed, err := bedService.GetBedByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, bed)
}

// 3. CreateBed registers a single bed
// @Summary Create bed
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BedRequest true "bed"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /beds [post]
func (c *BedController) CreateBed() {
	var req BedRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	bed := &models.Bed{
		CampID:     req.CampID,
		RoomNumber: req.RoomNumber,
		BedNumber:  req.BedNumber,
		Status:     models.BedStatusAvailable,
	}

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	if err := bedService.CreateBed(bed); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, bed)
}

// 4. SeedBeds provisions a numbered run of beds in one room
// @Summary Seed beds
// @Description Creates count beds numbered B-01..B-NN in the given room
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SeedBedsRequest true "seed request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /beds/seed [post]
func (c *BedController) SeedBeds() {
	var req SeedBedsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	beds, err := bedService.SeedBeds(req.CampID, req.RoomNumber, req.Count)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"created": len(beds),
		"data":    beds,
	})
}

// 5. DeleteBed removes an available bed
// @Summary Delete bed
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "bed id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /beds/{id} [delete]
func (c *BedController) DeleteBed() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid bed id")
		return
	}

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	if err := bedService.DeleteBed(uint(id)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}

// 6. GetBedCounts returns per-status bed counts for a camp
// @Summary Bed counts by status
// @Tags Bed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param camp_id query int false "camp id, 0 for all camps"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /beds/counts [get]
func (c *BedController) GetBedCounts() {
	campID, _ := strconv.Atoi(c.Ctx.DefaultQuery("camp_id", "0"))

	bedService := c.Container.GetService("bed").(services.InterfaceBedService)
	counts, err := bedService.CountByStatus(uint(campID))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, counts)
}
