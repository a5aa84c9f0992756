// @title           Camp Manager Service API
// @version         1.0
// @description     Transfer and exit lifecycle management for workforce accommodation camps

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"campmanager-service/internal/app/routes"
	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/internal/infrastructure/database"
	Logger "campmanager-service/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		Logger.Warning("no .env file loaded: %v", err)
		// environment may already be set another way, keep going
	} else {
		Logger.Info("loaded .env file")
	}

	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("failed to create database connection pool: %v", err)
	}
	db := pool.GetDB()

	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("warning: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop and recreate failed: %v", err)
		}
	default:
		// AutoMigrate only adds new columns and tables
		log.Println("running in standard mode, only new columns and tables are added")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
	}

	ensureAdminExists(db, cfg)
	ensureActionTypesExist(db)

	r := routes.SetupRouter(db, cfg)

	port := cfg.ServerPort
	Logger.Info("server listening on http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}

// autoMigrate migrates all models (only adds new columns and tables)
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.Camp{},
		&models.Bed{},
		&models.Technician{},
		&models.ExternalPersonnel{},
		&models.TransferRequest{},
		&models.TransferRequestMember{},
		&models.DisciplinaryActionType{},
		&models.DisciplinaryAction{},
		&models.OperationLog{},
	)
	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables drops every table and migrates from scratch
func dropAndRecreateTables(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	if _, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		log.Printf("failed to disable foreign key checks: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	tables := []string{
		"admins", "camps", "beds", "technicians", "external_personnel",
		"transfer_requests", "transfer_request_members",
		"disciplinary_action_types", "disciplinary_actions", "operation_logs",
	}

	for _, table := range tables {
		log.Printf("dropping table: %s", table)
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			log.Printf("failed to drop table: %v", err)
		}
	}

	return autoMigrate(db)
}

// ensureAdminExists seeds the default admin account on an empty system
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)

	if count == 0 {
		admin := models.Admin{
			Username: "admin",
			Password: cfg.DefaultAdminPassword, // hashed by the BeforeSave hook
			Role:     models.RoleSystemAdmin,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create default admin: %v", err)
		}

		log.Println("default admin account created")
	}
}

// ensureActionTypesExist seeds the disciplinary action types the exit
// trigger keys on
func ensureActionTypesExist(db *gorm.DB) {
	seed := []models.DisciplinaryActionType{
		{Name: "termination", LegacyCode: "TERM", Description: "employment terminated for cause"},
		{Name: "resignation", LegacyCode: "RESG", Description: "employee resigned"},
		{Name: "warning", LegacyCode: "WARN", Description: "formal warning on record"},
	}

	for _, actionType := range seed {
		var count int64
		db.Model(&models.DisciplinaryActionType{}).Where("name = ?", actionType.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&actionType).Error; err != nil {
				log.Printf("failed to seed action type %s: %v", actionType.Name, err)
			}
		}
	}
}
