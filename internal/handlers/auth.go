package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aidosk/shopapi/internal/logging"
	authmw "github.com/aidosk/shopapi/internal/middleware/auth"
	"github.com/aidosk/shopapi/internal/mykafka"
	"github.com/aidosk/shopapi/internal/service"
	"github.com/aidosk/shopapi/internal/transport"
)

type AuthHandler struct {
	Users    *service.UserService
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.create_user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_user_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	user, err := h.Users.CreateAccount(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Email already exists")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"status":  http.StatusCreated,
		"data": transport.UserResponse{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
	})
}

// Token handles the OAuth2-style form login.
func (h *AuthHandler) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.token")

	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("token_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Users.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return echo.NewHTTPError(http.StatusBadRequest, "Incorrect Email")
		case errors.Is(err, service.ErrInvalidCredentials):
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid login credentials")
		default:
			return err
		}
	}

	h.publish(c, map[string]any{
		"type":  "user_logged_in",
		"email": req.Username,
	})

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	refreshToken := c.Request().Header.Get("refresh_token")
	pair, err := h.Users.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// Me returns the identity the auth middleware attached, if any.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	return c.JSON(http.StatusOK, transport.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}
