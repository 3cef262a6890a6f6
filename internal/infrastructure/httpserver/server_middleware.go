package httpserver

import (
	"github.com/labstack/echo/v4/middleware"

	custommw "github.com/sampleapp/accounts/internal/infrastructure/httpserver/middleware"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(custommw.NewMetricsMiddleware(requestsTotal, requestDuration).CollectHTTPMetrics())
	s.echo.Use(custommw.NewLoggingMiddleware(s.logger).RequestLogging())
}
