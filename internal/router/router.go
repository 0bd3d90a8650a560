package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/konnect-app/backend/internal/handlers"
	"github.com/konnect-app/backend/internal/middleware"
	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
	"github.com/konnect-app/backend/internal/services"
	"github.com/konnect-app/backend/pkg/config"
	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.Account{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	accountRepo := repositories.NewPostgresAccountRepository(pgdb)
	recordRepo := repositories.NewMongoRecordRepository(mgClient.Database(cfg.MongoDatabase))

	// --- Initialize Services ---
	intakeService := services.NewIntakeService(recordRepo)
	lifecycleService := services.NewLifecycleService(recordRepo)
	grantService := services.NewGrantService(recordRepo)
	cascadeService := services.NewCascadeService(recordRepo)
	viewService := services.NewViewService(recordRepo)

	codec := payload.NewCodec(cfg.PayloadSecret)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(middleware.PayloadCodecMiddleware(codec))
	authHandler := handlers.NewAuthHandler(accountRepo, recordRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	// AUTH_MODE selects how API calls authenticate: local JWTs issued by the
	// signin endpoints, or Firebase ID tokens verified directly.
	api := e.Group("/api/v1")
	if cfg.AuthMode == "firebase" {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		api.Use(middleware.JWTAuthMiddleware())
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}
	api.Use(middleware.PayloadCodecMiddleware(codec))

	// Public profile routes
	userHandler := handlers.NewUserHandler(recordRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Profile card routes
	profileHandler := handlers.NewProfileHandler(recordRepo, cascadeService, codec)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Connection request routes
	requestHandler := handlers.NewRequestHandler(intakeService, lifecycleService, viewService, codec)
	requestHandler.RegisterRequestRoutes(api)
	log.Println("Request routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(grantService, viewService, codec)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	log.Println("All routes configured.")
}
