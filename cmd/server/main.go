package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fitfam/internal/config"
	"fitfam/internal/database"
	"fitfam/internal/handlers"
	"fitfam/internal/metrics"
	"fitfam/internal/repository"
	"fitfam/internal/security"
	"fitfam/internal/service"
	"fitfam/internal/sugarwod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	handlers.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	handlers.CompleteStep(handlers.StepDatabase)

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	handlers.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	handlers.CompleteStep(handlers.StepMigrations)

	log.Println("Migrations completed successfully")

	handlers.SetCurrentStep(handlers.StepServices)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, cfg.BcryptCost)
	familyRepo := repository.NewFamilyRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	postingRepo := repository.NewPostingRepository(db)
	resultRepo := repository.NewResultRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Redis is optional; without it featured imports rely on the sw_id unique index
	rdb, err := service.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, featured import lock disabled: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Failed to initialize email service: %v", err)
	}

	feed := sugarwod.NewClient(cfg.SugarWODBaseURL, cfg.SugarWODAPIKey)
	if !feed.Enabled() {
		log.Println("SugarWOD feed disabled: SUGARWOD_API_KEY not configured")
	}

	// Initialize services
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, tokens, emailService)
	authzService := service.NewAuthzService(membershipRepo)
	familyService := service.NewFamilyService(familyRepo, membershipRepo)
	membershipService := service.NewMembershipService(membershipRepo, userRepo, familyRepo, emailService)
	workoutService := service.NewWorkoutService(workoutRepo, feed, service.NewRedisLocker(rdb))

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	go limiter.Run(ctx, time.Minute)

	// Initialize handlers
	api := &handlers.Handlers{
		Middleware:  handlers.NewMiddleware(authService, limiter),
		Auth:        handlers.NewAuthHandler(authService, handlers.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret), cfg.OAuthRedirectBaseURL),
		Users:       handlers.NewUserHandler(userRepo, authzService),
		Families:    handlers.NewFamilyHandler(familyRepo, familyService, authzService),
		Memberships: handlers.NewMembershipHandler(membershipRepo, membershipService, authzService),
		Workouts:    handlers.NewWorkoutHandler(workoutRepo, movementRepo, workoutService),
		Postings:    handlers.NewPostingHandler(postingRepo, authzService),
		Results:     handlers.NewResultHandler(resultRepo, commentRepo, authzService),
		Metrics:     metrics.Handler(),
	}

	// Setup routes
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	handlers.CompleteStep(handlers.StepServices)
	handlers.MarkReady()

	// Wrap with middleware, outermost first: logging, panic recovery, metrics
	handler := handlers.Logging(handlers.Recover(handlers.RequireReady(metrics.Middleware(mux))))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
