package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "movie-catalog/docs"
	"movie-catalog/internal/config"
	"movie-catalog/internal/database"
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/routes"
	"movie-catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title Movie Catalog API
// @version 1.0
// @description Catalog of movies, TV series and genres with user reviews and watchlists

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8010
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	// Load environment variables
	loadEnvFile()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	log := setupLogger()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	userRepo := repository.NewUserRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	seriesRepo := repository.NewTVSeriesRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	rdb, revocation := setupRevocationStore(cfg.Redis, revokedRepo, log)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("Error closing redis connection: %v", err)
			}
		}()
	} else {
		pruneRevokedTokens(revokedRepo, log)
	}

	var posters services.PosterStore
	var uploader handlers.PosterUploader
	var minioService *services.MinIOService
	if cfg.MinIO.Enabled {
		minioService, err = services.NewMinIOService(&cfg.MinIO, log)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO service: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := minioService.EnsureBucket(ctx, cfg.MinIO.Region); err != nil {
			log.WithError(err).Warn("Failed to configure bucket, but continuing...")
		}
		cancel()
		posters = minioService
		uploader = minioService
	}

	tokenManager := services.NewTokenManager(cfg.Auth)
	authService := services.NewAuthService(userRepo, tokenManager, revocation, cfg.Auth.BcryptCost, log)
	seedStaffUser(authService, cfg.Auth, log)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Movie:     handlers.NewMovieHandler(services.NewMovieService(movieRepo, posters, log), log),
		TVSeries:  handlers.NewTVSeriesHandler(services.NewTVSeriesService(seriesRepo, posters, log), log),
		Genre:     handlers.NewGenreHandler(services.NewGenreService(genreRepo, log), log),
		Review:    handlers.NewReviewHandler(services.NewReviewService(reviewRepo, movieRepo, seriesRepo, log), log),
		Watchlist: handlers.NewWatchlistHandler(services.NewWatchlistService(watchlistRepo, movieRepo, seriesRepo, log), log),
		Upload:    handlers.NewUploadHandler(uploader, log),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Movie Catalog API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler(log),
	})

	setupMiddleware(app)

	app.Get("/health", healthCheckHandler(db, rdb, minioService))

	// Swagger documentation
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Setup API routes
	routes.Setup(app, h, middleware.NewAuth(authService, cfg.Auth.WritesRequireStaff, log))

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.Infof("Movie Catalog API starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

// setupRevocationStore prefers redis and falls back to the revoked_tokens table.
func setupRevocationStore(cfg config.RedisConfig, repo repository.RevokedTokenRepository, log *logrus.Logger) (*redis.Client, services.RevocationStore) {
	if cfg.Enabled {
		rdb, err := database.ConnectRedis(cfg)
		if err == nil {
			log.WithField("addr", cfg.Addr).Info("Redis connected, revoked tokens stored in redis")
			return rdb, services.NewRedisRevocationStore(rdb)
		}
		log.WithError(err).Warn("Redis unavailable, revoked tokens stored in database")
	}
	return nil, services.NewDatabaseRevocationStore(repo)
}

func pruneRevokedTokens(repo repository.RevokedTokenRepository, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.WithError(err).Warn("Failed to prune expired revoked tokens")
		return
	}
	if deleted > 0 {
		log.WithField("deleted", deleted).Info("Pruned expired revoked tokens")
	}
}

func seedStaffUser(auth services.AuthService, cfg config.AuthConfig, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := auth.EnsureStaffUser(ctx, cfg.AdminEmail, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.WithError(err).Error("Failed to seed staff user")
	}
}

func setupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, OPTIONS, PATCH",
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}))
}

func healthCheckHandler(db *database.Database, rdb *redis.Client, storage *services.MinIOService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		status := "ok"
		dbStatus := "healthy"
		if err := db.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
			status = "degraded"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "healthy"
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisStatus = "unhealthy"
				status = "degraded"
			}
		}

		storageStatus := "disabled"
		if storage != nil {
			storageStatus = "healthy"
			if err := storage.Ping(ctx); err != nil {
				storageStatus = "unhealthy"
			}
		}

		return c.JSON(fiber.Map{
			"status":    status,
			"service":   "movie-catalog",
			"version":   "1.0.0",
			"database":  dbStatus,
			"redis":     redisStatus,
			"storage":   storageStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).Error("Request error")

		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"code":    code,
			"message": err.Error(),
		})
	}
}

func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}

func loadEnvFile() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stdout)

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	execDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not get working directory: %v", err)
		return
	}

	envFile := filepath.Join(execDir, "envs", ".env."+env)
	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("Could not load environment file %s: %v", envFile, err)

		defaultEnvFile := filepath.Join(execDir, "envs", ".env")
		if err := godotenv.Load(defaultEnvFile); err != nil {
			log.Warnf("Could not load default environment file: %v", err)
		} else {
			log.Infof("Environment loaded from default file %s", defaultEnvFile)
		}
	} else {
		log.Infof("Environment loaded from file %s", envFile)
	}
}
