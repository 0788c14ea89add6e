package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/akarpenko/studyflow/internal/app/controllers"
	appMigrations "github.com/akarpenko/studyflow/internal/app/migrations"
	appRepos "github.com/akarpenko/studyflow/internal/app/repositories"
	appRoutes "github.com/akarpenko/studyflow/internal/app/routes"
	appServices "github.com/akarpenko/studyflow/internal/app/services"
	"github.com/akarpenko/studyflow/internal/config"
	"github.com/akarpenko/studyflow/internal/db"
	appMiddleware "github.com/akarpenko/studyflow/internal/middleware"
	"github.com/akarpenko/studyflow/internal/pkg/logger"
	"github.com/akarpenko/studyflow/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService           appServices.CourseService
	HierarchyService        appServices.HierarchyService
	TeacherCourseService    appServices.TeacherCourseService
	UserCourseService       appServices.UserCourseService
	MaterialService         appServices.MaterialService
	CourseController        *appControllers.CourseController
	HierarchyController     *appControllers.HierarchyController
	TeacherCourseController *appControllers.TeacherCourseController
	UserCourseController    *appControllers.UserCourseController
	MaterialController      *appControllers.MaterialController
	AuthMiddleware          *appMiddleware.AuthMiddleware
	Repos                   *appRepos.Repositories
	Logger                  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// Initialize services
	deps.CourseService = appServices.NewCourseService(deps.Repos, cfg.Hierarchy.MaxCascadeDepth)
	deps.HierarchyService = appServices.NewHierarchyService(deps.Repos,
		cfg.Hierarchy.MaxCycleDepth, cfg.Hierarchy.MaxCascadeDepth)
	deps.TeacherCourseService = appServices.NewTeacherCourseService(deps.Repos, cfg.Hierarchy.MaxCascadeDepth)
	deps.UserCourseService = appServices.NewUserCourseService(deps.Repos)
	deps.MaterialService = appServices.NewMaterialService(deps.Repos)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(cfg.API.Key)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HierarchyController = appControllers.NewHierarchyController(deps.HierarchyService)
	deps.TeacherCourseController = appControllers.NewTeacherCourseController(deps.TeacherCourseService)
	deps.UserCourseController = appControllers.NewUserCourseController(deps.UserCourseService)
	deps.MaterialController = appControllers.NewMaterialController(deps.MaterialService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.HierarchyController,
		deps.TeacherCourseController,
		deps.UserCourseController,
		deps.MaterialController,
		deps.AuthMiddleware,
	)

	// Health endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
