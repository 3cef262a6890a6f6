package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/sampleapp/accounts/configs"
	"github.com/sampleapp/accounts/internal/application/services"
	"github.com/sampleapp/accounts/internal/core/ports"
	"github.com/sampleapp/accounts/internal/infrastructure/db"
	"github.com/sampleapp/accounts/internal/infrastructure/email"
	"github.com/sampleapp/accounts/internal/infrastructure/httpserver"
	"github.com/sampleapp/accounts/internal/infrastructure/redis"
	"github.com/sampleapp/accounts/internal/infrastructure/repositories"
	"github.com/sampleapp/accounts/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting accounts service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Repositories and workflow collaborators
	userRepo := repositories.NewUserRepository(database, logger)
	tokenRepo := repositories.NewEmailTokenRepository(database, logger)
	mailSender := email.NewSendGridSender(&cfg.Email, logger)
	hasher := utils.NewBcryptHasher()
	rateLimiter := redis.NewFixedWindowLimiter(redisClient)

	registrationService := services.NewRegistrationService(
		userRepo, tokenRepo, mailSender, hasher, logger,
		cfg.Email.BaseURL, cfg.Token.Length,
	)

	// Periodic expiry sweep for verification tokens
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredTokens(sweepCtx, tokenRepo, cfg.Token, logger)

	server := httpserver.NewServer(
		&httpserver.ServerConfig{
			Host:              cfg.Server.Host,
			Port:              cfg.Server.Port,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			RegisterRateLimit: cfg.RateLimit.RegisterPerMinute,
			RateLimitWindow:   cfg.RateLimit.Window,
			TokenMaxAge:       cfg.Token.MaxAge,
		},
		logger,
		httpserver.ServerDeps{
			Registration: registrationService,
			Users:        userRepo,
			Tokens:       tokenRepo,
			RateLimiter:  rateLimiter,
			HealthChecks: map[string]httpserver.HealthCheck{
				"database": func(ctx context.Context) error { return database.DB.PingContext(ctx) },
				"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			},
		},
	)

	go func() {
		if err := server.Start(); err != nil {
			logger.Info("HTTP server stopped:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down server gracefully:", err)
	}
}

// sweepExpiredTokens periodically reclaims verification tokens older than
// the configured max age.
func sweepExpiredTokens(ctx context.Context, tokens ports.EmailTokenRepository, cfg config.TokenConfig, logger *logrus.Logger) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := tokens.SweepExpired(ctx, cfg.MaxAge)
			if err != nil {
				logger.WithError(err).Error("token sweep failed")
				continue
			}
			if len(res.Tokens) > 0 {
				logger.WithFields(logrus.Fields{"rows": len(res.Tokens)}).Info("token sweep removed expired tokens")
			}
		}
	}
}
