package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "campmanager-service/docs"
	"campmanager-service/internal/app/controllers"
	"campmanager-service/internal/app/middleware"
	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/domain/services/container"
	"campmanager-service/internal/infrastructure/config"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)
	middleware.InitAuthMiddleware(cfg)

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers routes that need no authentication
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// 10 requests per second per IP, bursts of 20
	api.Use(middleware.RateLimit(10, 20))

	health := controllers.NewHealthCheckController()
	api.GET("/ping", health.Ping)
	api.GET("/health", health.Ping) // Docker health check compatibility

	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes registers routes behind JWT authentication
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	auth := api.Group("/")
	auth.Use(middleware.Authenticate())

	// 30 requests per second per IP, bursts of 50
	auth.Use(middleware.RateLimit(30, 50))

	// Admin account management, system admins only
	adminGroup := auth.Group("/admins")
	adminGroup.Use(middleware.RequireRole(models.RoleSystemAdmin))
	adminGroup.GET("", controllers.HandleAdminFunc(container, "getAdmins"))
	adminGroup.GET("/:id", controllers.HandleAdminFunc(container, "getAdmin"))
	adminGroup.POST("", controllers.HandleAdminFunc(container, "createAdmin"))
	adminGroup.PUT("/:id", controllers.HandleAdminFunc(container, "updateAdmin"))
	adminGroup.DELETE("/:id", controllers.HandleAdminFunc(container, "deleteAdmin"))

	// Camp routes
	campGroup := auth.Group("/camps")
	campGroup.GET("", controllers.HandleCampFunc(container, "getCamps"))
	campGroup.GET("/exit-camp", controllers.HandleCampFunc(container, "getExitCamp"))
	campGroup.GET("/:id", controllers.HandleCampFunc(container, "getCamp"))
	campGroup.GET("/:id/occupants", controllers.HandleCampFunc(container, "getCampOccupants"))
	campGroup.POST("", controllers.HandleCampFunc(container, "createCamp"))
	campGroup.PUT("/:id", controllers.HandleCampFunc(container, "updateCamp"))
	campGroup.DELETE("/:id", controllers.HandleCampFunc(container, "deleteCamp"))

	// Bed routes
	bedGroup := auth.Group("/beds")
	bedGroup.GET("", controllers.HandleBedFunc(container, "getBeds"))
	bedGroup.GET("/counts", controllers.HandleBedFunc(container, "getBedCounts"))
	bedGroup.GET("/:id", controllers.HandleBedFunc(container, "getBed"))
	bedGroup.POST("", controllers.HandleBedFunc(container, "createBed"))
	bedGroup.POST("/seed", controllers.HandleBedFunc(container, "seedBeds"))
	bedGroup.DELETE("/:id", controllers.HandleBedFunc(container, "deleteBed"))

	// Technician routes
	technicianGroup := auth.Group("/technicians")
	technicianGroup.GET("", controllers.HandleTechnicianFunc(container, "getTechnicians"))
	technicianGroup.GET("/:id", controllers.HandleTechnicianFunc(container, "getTechnician"))
	technicianGroup.POST("", controllers.HandleTechnicianFunc(container, "createTechnician"))
	technicianGroup.PUT("/:id", controllers.HandleTechnicianFunc(container, "updateTechnician"))
	technicianGroup.DELETE("/:id", controllers.HandleTechnicianFunc(container, "deleteTechnician"))

	// External personnel routes
	externalGroup := auth.Group("/externals")
	externalGroup.GET("", controllers.HandleExternalFunc(container, "getExternals"))
	externalGroup.GET("/:id", controllers.HandleExternalFunc(container, "getExternal"))
	externalGroup.POST("", controllers.HandleExternalFunc(container, "createExternal"))
	externalGroup.PUT("/:id", controllers.HandleExternalFunc(container, "updateExternal"))
	externalGroup.DELETE("/:id", controllers.HandleExternalFunc(container, "deleteExternal"))

	// Transfer request lifecycle routes. Role checks happen inside the
	// engine so the audit log records the denied actor.
	transferGroup := auth.Group("/transfers")
	transferGroup.GET("", controllers.HandleTransferFunc(container, "getTransferRequests"))
	transferGroup.GET("/:id", controllers.HandleTransferFunc(container, "getTransferRequest"))
	transferGroup.POST("", controllers.HandleTransferFunc(container, "createTransferRequest"))
	transferGroup.POST("/:id/allocate", controllers.HandleTransferFunc(container, "allocateBeds"))
	transferGroup.POST("/:id/approve", controllers.HandleTransferFunc(container, "approveForDispatch"))
	transferGroup.POST("/:id/reject", controllers.HandleTransferFunc(container, "rejectAllocation"))
	transferGroup.POST("/:id/cancel", controllers.HandleTransferFunc(container, "cancelRequest"))
	transferGroup.POST("/:id/dispatch", controllers.HandleTransferFunc(container, "dispatchTechnicians"))
	transferGroup.POST("/:id/arrival", controllers.HandleTransferFunc(container, "confirmArrival"))

	// Disciplinary routes
	disciplinaryGroup := auth.Group("/disciplinary")
	disciplinaryGroup.GET("/types", controllers.HandleDisciplinaryFunc(container, "getActionTypes"))
	disciplinaryGroup.POST("/types", controllers.HandleDisciplinaryFunc(container, "createActionType"))
	disciplinaryGroup.GET("/persons/:type/:id", controllers.HandleDisciplinaryFunc(container, "getPersonActions"))
	disciplinaryGroup.GET("/actions/:id", controllers.HandleDisciplinaryFunc(container, "getAction"))
	disciplinaryGroup.POST("/actions", controllers.HandleDisciplinaryFunc(container, "recordAction"))
	disciplinaryGroup.POST("/actions/:id/trigger-exit", controllers.HandleDisciplinaryFunc(container, "triggerExitProcess"))

	// Exit formalities routes
	exitGroup := auth.Group("/exits")
	exitGroup.GET("", controllers.HandleExitFunc(container, "listInProcess"))
	exitGroup.GET("/:type/:id", controllers.HandleExitFunc(container, "getFormalities"))
	exitGroup.PUT("/:type/:id/checklist", controllers.HandleExitFunc(container, "updateChecklist"))
	exitGroup.PUT("/:type/:id/decision", controllers.HandleExitFunc(container, "setDeportDecision"))
	exitGroup.PUT("/:type/:id/vehicle", controllers.HandleExitFunc(container, "assignVehicle"))
	exitGroup.POST("/:type/:id/departure", controllers.HandleExitFunc(container, "confirmDeparture"))
	exitGroup.POST("/:type/:id/complete", controllers.HandleExitFunc(container, "completeFormalities"))

	// Dashboard, short response cache on top of the Redis counter cache
	statsGroup := auth.Group("/stats")
	statsGroup.GET("/dashboard", middleware.CacheResponse(5*time.Second), controllers.HandleStatsFunc(container, "getDashboard"))
}
