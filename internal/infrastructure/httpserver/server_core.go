package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/internal/core/ports"
	custommw "github.com/sampleapp/accounts/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	RegisterRateLimit int
	RateLimitWindow   time.Duration
	TokenMaxAge       time.Duration
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type ServerDeps struct {
	Registration ports.RegistrationService
	Users        ports.UserRepository
	Tokens       ports.EmailTokenRepository
	RateLimiter  ports.RateLimiter
	HealthChecks map[string]HealthCheck
}

type Server struct {
	echo         *echo.Echo
	config       *ServerConfig
	logger       *logrus.Logger
	registration ports.RegistrationService
	users        ports.UserRepository
	tokens       ports.EmailTokenRepository
	rateLimit    *custommw.RateLimitMiddleware
	health       map[string]HealthCheck
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:         e,
		config:       serverConfig,
		logger:       logger,
		registration: deps.Registration,
		users:        deps.Users,
		tokens:       deps.Tokens,
		rateLimit:    custommw.NewRateLimitMiddleware(deps.RateLimiter, serverConfig.RegisterRateLimit, serverConfig.RateLimitWindow, logger),
		health:       deps.HealthChecks,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
