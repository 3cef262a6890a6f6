package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
	"github.com/sampleapp/accounts/internal/infrastructure/db"
)

type statusResponse struct {
	Status  result.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: err.Error()})
	}

	res, err := s.registration.Register(c.Request().Context(), &req)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) verifyEmail(c echo.Context) error {
	res, err := s.registration.VerifyEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) resendVerification(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	res, err := s.registration.ResendVerification(c.Request().Context(), userID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

// errorResponse translates infrastructure errors at the transport
// boundary: the duplicate-insert race shows up as a unique violation and
// answers CONFLICT, everything else is FAILED.
func (s *Server) errorResponse(c echo.Context, err error) error {
	if db.IsUniqueViolation(err) {
		return c.JSON(result.Conflict.HTTPStatus(), statusResponse{Status: result.Conflict, Message: "duplicate username or email"})
	}
	if s.logger != nil {
		s.logger.WithError(err).Error("request failed")
	}
	return c.JSON(result.Failed.HTTPStatus(), statusResponse{Status: result.Failed})
}
