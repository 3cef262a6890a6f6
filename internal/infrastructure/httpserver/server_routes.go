package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	// The verification link mailed to users points here.
	s.echo.GET("/verify/:token", s.verifyEmail)

	api := s.echo.Group("/api/v1")
	api.POST("/register", s.register, s.rateLimit.Handler())

	users := api.Group("/users")
	users.GET("", s.getUsers)
	users.PUT("", s.putUser)
	users.DELETE("", s.deleteUsers)
	users.GET("/:id", s.getUser)
	users.PATCH("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)
	users.POST("/:id/resend-verification", s.resendVerification)

	tokens := api.Group("/tokens")
	tokens.GET("", s.getTokens)
	tokens.DELETE("", s.deleteTokens)
	tokens.DELETE("/expired", s.sweepTokens)
}
