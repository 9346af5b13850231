package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/controllers"
	"github.com/mete/schoolhub/internal/app/migrations"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/app/routes"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/config"
	"github.com/mete/schoolhub/internal/db"
	"github.com/mete/schoolhub/internal/middleware"
	"github.com/mete/schoolhub/internal/pkg/auth"
	"github.com/mete/schoolhub/internal/pkg/logger"
	"github.com/mete/schoolhub/internal/seed"
)

// Dependencies holds everything the server needs wired together.
type Dependencies struct {
	Repos *repositories.Repositories

	AuthService      services.AuthService
	FeedbackService  services.FeedbackService
	TimetableService services.TimetableService
	ExamService      services.ExamService
	PaymentService   services.PaymentService
	EventService     services.EventService

	AuthController      *controllers.AuthController
	FeedbackController  *controllers.FeedbackController
	TimetableController *controllers.TimetableController
	ExamController      *controllers.ExamController
	PaymentController   *controllers.PaymentController
	EventController     *controllers.EventController

	AuthMiddleware *middleware.AuthMiddleware
	JWTService     *auth.JWTService
}

// LoadConfigAndSetupLogger loads the application configuration and configures
// the global logger accordingly.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	logger.Info().Str("mode", cfg.Server.Mode).Msg("Configuration loaded")
	return cfg, nil
}

// SetupDatabase connects to Postgres, runs pending migrations and seeds the
// default data.
func SetupDatabase(cfg *config.Config, migrationsDir string) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), database.Pool); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed default data: %w", err)
	}

	return database, nil
}

// BuildDependencies wires repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) *Dependencies {
	repos := repositories.NewRepositories(database.Pool)

	// Validated at config load time
	tokenExp, _ := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: tokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	authService := services.NewAuthService(repos.UserRepository, jwtService)
	feedbackService := services.NewFeedbackService(repos.FeedbackRepository, repos.UserRepository, repos.CourseRepository)
	timetableService := services.NewTimetableService(repos.TimetableRepository, repos.CourseRepository, repos.UserRepository)
	examService := services.NewExamService(repos.ExamRepository, repos.CourseRepository, repos.UserRepository)
	paymentService := services.NewPaymentService(repos.PaymentRepository, repos.CourseRepository, repos.UserRepository)
	eventService := services.NewEventService(repos.EventRepository, repos.UserRepository)

	return &Dependencies{
		Repos: repos,

		AuthService:      authService,
		FeedbackService:  feedbackService,
		TimetableService: timetableService,
		ExamService:      examService,
		PaymentService:   paymentService,
		EventService:     eventService,

		AuthController:      controllers.NewAuthController(authService),
		FeedbackController:  controllers.NewFeedbackController(feedbackService),
		TimetableController: controllers.NewTimetableController(timetableService),
		ExamController:      controllers.NewExamController(examService),
		PaymentController:   controllers.NewPaymentController(paymentService),
		EventController:     controllers.NewEventController(eventService),

		AuthMiddleware: middleware.NewAuthMiddleware(jwtService),
		JWTService:     jwtService,
	}
}

// SetupRouter builds the gin engine with middleware and all routes attached.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.SetupRouter(
		router,
		deps.AuthController,
		deps.FeedbackController,
		deps.TimetableController,
		deps.ExamController,
		deps.PaymentController,
		deps.EventController,
		deps.AuthMiddleware,
	)

	return router
}
