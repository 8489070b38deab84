package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/api"
	"fitlife/challenge-api/internal/config"
	gormrepo "fitlife/challenge-api/internal/repository/gorm"
	"fitlife/challenge-api/internal/service"
	"fitlife/challenge-api/internal/storage"
)

func main() {
	log.Println("Starting Challenge API Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	db, err := gormrepo.ConnectDB(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	log.Println("Database connection established.")

	// --- Schema Migration ---
	if err := gormrepo.Migrate(db); err != nil {
		log.Fatalf("FATAL: Could not migrate database schema: %v", err)
	}
	log.Println("Database schema migrated.")

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := gormrepo.NewUserRepository(db)
	challengeRepo := gormrepo.NewChallengeRepository(db)
	enrollmentRepo := gormrepo.NewEnrollmentRepository(db)
	workoutRepo := gormrepo.NewWorkoutRepository(db)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	challengeService := service.NewChallengeService(challengeRepo, enrollmentRepo, userRepo, fileStorage)
	workoutService := service.NewWorkoutService(workoutRepo)
	userService := service.NewUserService(userRepo, challengeRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, userRepo, authService, challengeService, workoutService, userService, cfg.Upload.MaxImageBytes)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give in-flight requests five seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
