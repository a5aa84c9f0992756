package container

import (
	"sync"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/pkg/logger"
)

// ServiceContainer manages dependency injection for all services
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// Base services
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService
	eventService services.InterfaceEventService

	// Entity services
	adminService      services.InterfaceAdminService
	campService       services.InterfaceCampService
	bedService        services.InterfaceBedService
	technicianService services.InterfaceTechnicianService
	externalService   services.InterfaceExternalService
	occupantService   services.InterfaceOccupantService

	// Engine services
	transferService     services.InterfaceTransferService
	disciplinaryService services.InterfaceDisciplinaryService
	exitService         services.InterfaceExitService
	statsService        services.InterfaceStatsService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices wires all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Base services
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)
	if err := c.redisService.Ping(); err != nil {
		logger.Warning("Redis unavailable, counters will not be cached: %v", err)
		c.redisService = nil
	}

	c.eventService = services.NewEventService(c.config)
	if err := c.eventService.Connect(); err != nil {
		logger.Warning("event broker connection failed: %v", err)
	}

	// Entity services
	c.adminService = services.NewAdminService(c.db, c.config)
	c.campService = services.NewCampService(c.db, c.config)
	c.bedService = services.NewBedService(c.db, c.config)
	c.technicianService = services.NewTechnicianService(c.db, c.config)
	c.externalService = services.NewExternalService(c.db, c.config)
	c.occupantService = services.NewOccupantService(c.db, c.config)

	// Engine services
	c.transferService = services.NewTransferService(c.db, c.config, c.campService, c.eventService)
	c.disciplinaryService = services.NewDisciplinaryService(c.db, c.config, c.campService, c.transferService)
	c.exitService = services.NewExitService(c.db, c.config, c.campService, c.eventService)
	c.statsService = services.NewStatsService(c.db, c.config, c.bedService, c.redisService)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "event":
		return c.eventService
	case "admin":
		return c.adminService
	case "camp":
		return c.campService
	case "bed":
		return c.bedService
	case "technician":
		return c.technicianService
	case "external":
		return c.externalService
	case "occupant":
		return c.occupantService
	case "transfer":
		return c.transferService
	case "disciplinary":
		return c.disciplinaryService
	case "exit":
		return c.exitService
	case "stats":
		return c.statsService
	default:
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
