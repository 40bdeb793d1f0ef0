package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/api/metrics"
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username         string `json:"username"          validate:"required"`
	Email            string `json:"email"             validate:"required,email"`
	Password         string `json:"password"          validate:"required"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type"              validate:"omitempty,oneof=customer business"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		Token:    r.Token,
		Username: r.User.Username,
		Email:    r.User.Email,
		UserID:   r.User.ID,
	}
}

// Register creates a new user account and issues its token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/registration [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		RepeatedPassword: req.RepeatedPassword,
		Role:             domain.Role(req.Type),
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(res.User.Role)).Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login authenticates a user and returns the user's token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res))
}
