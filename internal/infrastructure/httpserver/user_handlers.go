package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
)

// userFilterFromQuery reads repeatable id/username/email query parameters
// into a filter. An unparseable id is reported, absent parameters simply
// contribute no condition.
func userFilterFromQuery(c echo.Context) (user.Filter, error) {
	var filter user.Filter
	for _, raw := range c.QueryParams()["id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return user.Filter{}, err
		}
		filter.IDs = append(filter.IDs, id)
	}
	filter.Usernames = c.QueryParams()["username"]
	filter.Emails = c.QueryParams()["email"]
	return filter, nil
}

func (s *Server) getUsers(c echo.Context) error {
	filter, err := userFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	res, err := s.users.Get(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	res, err := s.users.Get(c.Request().Context(), user.Filter{IDs: []uuid.UUID{id}})
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	var params user.UpdateParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid request body"})
	}

	res, err := s.users.Update(c.Request().Context(), id, params)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	res, err := s.users.Delete(c.Request().Context(), user.Filter{IDs: []uuid.UUID{id}})
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

func (s *Server) deleteUsers(c echo.Context) error {
	filter, err := userFilterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid user ID"})
	}

	res, err := s.users.Delete(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}

type putUserRequest struct {
	ID uuid.UUID `json:"userId"`
	user.UpdateParams
}

func (s *Server) putUser(c echo.Context) error {
	var req putUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: result.Invalid, Message: "invalid request body"})
	}

	res, err := s.users.Put(c.Request().Context(), user.Params{ID: req.ID, UpdateParams: req.UpdateParams})
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(res.Status.HTTPStatus(), res)
}
