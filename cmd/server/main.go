package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpact/fitness-backend/internal/api"
	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/config"
	"fitpact/fitness-backend/internal/planner"
	mongorepo "fitpact/fitness-backend/internal/repository/mongo"
	"fitpact/fitness-backend/internal/service"
	"fitpact/fitness-backend/internal/storage"
	"fitpact/fitness-backend/internal/tasks"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Info().Msg("starting fitpact server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongorepo.EnsureGoalIndexes(ctx, appDB.Collection("goals"))
		mongorepo.EnsureCheckInIndexes(ctx, appDB.Collection("checkins"))
		mongorepo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		log.Info().Msg("index creation process completed")
	}()

	// --- Exercise Catalog ---
	var exerciseCatalog catalog.Catalog = catalog.NewDefaultStaticCatalog()
	if cfg.Catalog.BaseURL != "" {
		httpCatalog, err := catalog.NewHTTPCatalog(&http.Client{Timeout: 10 * time.Second}, cfg.Catalog.BaseURL, cfg.Catalog.APIKey, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize exercise catalog client")
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		exerciseCatalog = catalog.NewCachedCatalog(httpCatalog, rdb, log)
		log.Info().Str("endpoint", cfg.Catalog.BaseURL).Msg("using cached HTTP exercise catalog")
	} else {
		log.Info().Msg("no catalog endpoint configured, using built-in static catalog")
	}

	// --- Completion Service ---
	completionClient := completion.NewClient(&completion.ClientConfig{
		BaseURL:           cfg.AI.BaseURL,
		APIKey:            cfg.AI.APIKey,
		Model:             cfg.AI.Model,
		Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
	})

	// --- File Storage ---
	// Optional: without a bucket the plans simply carry no media links.
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	} else {
		log.Info().Msg("no S3 bucket configured, media links disabled")
	}

	// --- Repositories ---
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	goalRepo := mongorepo.NewMongoGoalRepository(appDB)
	checkInRepo := mongorepo.NewMongoCheckInRepository(appDB)
	planRepo := mongorepo.NewMongoPlanRepository(appDB)

	// --- Services ---
	planGenerator := planner.New(completionClient, exerciseCatalog, log)
	authService := service.NewAuthService(userRepo, planRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	goalService := service.NewGoalService(goalRepo)
	checkInService := service.NewCheckInService(checkInRepo, goalService)
	planService := service.NewPlanService(planRepo, userRepo, goalRepo, goalService, planGenerator, fileStorage, log)

	// --- Background Tasks ---
	scheduler := tasks.NewScheduler(planService, log)
	if err := scheduler.Start(cfg.Tasks.RegenerateCron); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer scheduler.Stop()

	// --- HTTP Server ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, goalService, checkInService, planService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // plan generation can ride out agent retries
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
