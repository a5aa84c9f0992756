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

// InterfaceAdminController defines the admin controller interface
type InterfaceAdminController interface {
	GetAdmins()
	GetAdmin()
	CreateAdmin()
	UpdateAdmin()
	DeleteAdmin()
}

// AdminController handles admin account requests
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController creates a new admin controller
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// AdminRequest represents an admin create request
type AdminRequest struct {
	Username string `json:"username" binding:"required" example:"welfare1"`
	Password string `json:"password" binding:"required" example:"secret"`
	Email    string `json:"email" example:"welfare1@example.com"`
	Phone    string `json:"phone" example:"0501234567"`
	Role     string `json:"role" example:"welfare_officer"`
}

// HandleAdminFunc returns a Gin handler for the admin controller
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "createAdmin":
			controller.CreateAdmin()
		case "updateAdmin":
			controller.UpdateAdmin()
		case "deleteAdmin":
			controller.DeleteAdmin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetAdmins lists admin accounts
// @Summary List admins
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "page, default 1"
// @Param page_size query int false "page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /admins [get]
func (c *AdminController) GetAdmins() {
	page, pageSize := paginationParams(c.Ctx)

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, total, err := adminService.GetAllAdmins(page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      admins,
	})
}

// 2. GetAdmin fetches a single admin account
// @Summary Get admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "admin id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [get]
func (c *AdminController) GetAdmin() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.GetAdminByID(uint(id))
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, admin)
}

// 3. CreateAdmin registers a new admin account
// @Summary Create admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdminRequest true "admin account"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /admins [post]
func (c *AdminController) CreateAdmin() {
	var req AdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	admin := &models.Admin{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.AdminRole(req.Role),
	}
	if admin.Role == "" {
		admin.Role = models.RoleViewer
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.CreateAdmin(admin); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, admin)
}

// 4. UpdateAdmin updates an admin account
// @Summary Update admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "admin id"
// @Param request body map[string]interface{} true "fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /admins/{id} [put]
func (c *AdminController) UpdateAdmin() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.ParamError(c.Ctx, "invalid request body: "+err.Error())
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.UpdateAdmin(uint(id), updates)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, admin)
}

// 5. DeleteAdmin removes an admin account
// @Summary Delete admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "admin id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [delete]
func (c *AdminController) DeleteAdmin() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.DeleteAdmin(uint(id)); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}

// paginationParams reads page/page_size query parameters with defaults
func paginationParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
