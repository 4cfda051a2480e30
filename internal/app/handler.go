package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/groovix/groovix/internal/account"
	"github.com/groovix/groovix/internal/sec"
	"github.com/groovix/groovix/internal/storage"
)

type handler struct {
	accounts *account.Service
	gate     echo.MiddlewareFunc
}

func (h handler) register(e *echo.Echo) {
	e.POST("/register", h.registerUser)
	e.POST("/login", h.login)

	e.GET("/current-user", h.currentUser, h.gate)
	e.GET("/get-all-users", h.listUsers, h.gate)
	e.PUT("/update-user", h.updateUser, h.gate)
	e.POST("/logout", h.logout, h.gate)
}

type message struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h handler) registerUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"malformed request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, message{"email and password are required"})
	}

	user, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusCreated, struct {
		Message string          `json:"message"`
		User    account.Summary `json:"user"`
	}{"user registered successfully", user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h handler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"malformed request body"})
	}

	user, token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.translate(c, err)
	}

	sec.AttachSession(c.Response(), token)
	return c.JSON(http.StatusOK, struct {
		Message string          `json:"message"`
		User    account.Summary `json:"user"`
	}{"login successful", user})
}

func (h handler) currentUser(c echo.Context) error {
	identity := sec.GetAuthenticatedUser(c.Request().Context())
	user, err := h.accounts.CurrentUser(c.Request().Context(), identity.ID)
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Data    account.Summary `json:"data"`
		Message string          `json:"message"`
	}{user, "current user fetched successfully"})
}

func (h handler) listUsers(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return h.translate(c, err)
	}
	if users == nil {
		users = []account.Summary{}
	}
	return c.JSON(http.StatusOK, struct {
		Data    []account.Summary `json:"data"`
		Message string            `json:"message"`
	}{users, "users fetched successfully"})
}

type updateRequest struct {
	UserID string  `json:"userId"`
	Email  *string `json:"email"`
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

func (h handler) updateUser(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"malformed request body"})
	}
	targetID, err := strconv.ParseUint(req.UserID, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, message{"userId must be a decimal user identifier"})
	}

	err = h.accounts.Update(c.Request().Context(), storage.UpdateUserParams{
		ID:     targetID,
		Email:  req.Email,
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return h.translate(c, err)
	}
	return c.JSON(http.StatusOK, message{"user updated successfully"})
}

func (h handler) logout(c echo.Context) error {
	// Stateless tokens cannot be revoked server-side; the pre-logout token
	// stays valid until expiry. All we can do is discard the client's copy.
	sec.ClearSession(c.Response())
	return c.JSON(http.StatusOK, message{"logged out successfully"})
}

// translate maps domain errors onto the wire contract. Anything unrecognized
// is an internal error; no detail beyond the generic message may leak.
func (h handler) translate(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return c.JSON(http.StatusBadRequest, message{"user already exists"})
	case errors.Is(err, storage.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, message{err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusBadRequest, message{"user not found"})
	case errors.Is(err, account.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, message{"invalid password"})
	case errors.Is(err, account.ErrAccountLocked):
		return c.JSON(http.StatusForbidden, message{"account is locked"})
	default:
		// sec.ErrNoSigningSecret lands here too: a missing secret is a
		// server-side defect, not something the client can correct.
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, message{"internal server error"})
	}
}
