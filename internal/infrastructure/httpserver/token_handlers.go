package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
)

func tokenFilterFromQuery(c echo.Context) (user.TokenFilter, error) {
	var filter user.TokenFilter
	for _, raw := range c.QueryParams()["id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return user.TokenFilter{}, err
		}
		filter.IDs = append(filter.IDs, id)
	}
	for _, raw := range c.QueryParams()["userId"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return user.TokenFilter{}, err
		}
		filter.UserIDs = append(filter.UserIDs, id)
	}
	filter.Tokens = c.QueryParams()["token"]
	return filter, nil
}

func (s *Server) getTokens(c echo.Context) error {
	filter, err := tokenFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid ID"})
	}

	res, err := s.tokens.Get(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) deleteTokens(c echo.Context) error {
	filter, err := tokenFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid ID"})
	}

	res, err := s.tokens.Delete(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) sweepTokens(c echo.Context) error {
	maxAge := s.config.TokenMaxAge
	if raw := c.QueryParam("maxAgeHours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid maxAgeHours"})
		}
		maxAge = time.Duration(hours) * time.Hour
	}

	res, err := s.tokens.SweepExpired(c.Request().Context(), maxAge)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}
