package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conduit/internal/errors"
	"conduit/internal/render"
	"conduit/internal/service"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	env         render.Envelope
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		env: render.Envelope{
			Label:      "user",
			Transforms: []render.FieldTransform{render.DecodeToken("token", "refresh_token")},
		},
	}
}

// RegisterRequest carries the registration payload nested under "user".
type RegisterRequest struct {
	User RegisterUser `json:"user"`
}

// RegisterUser is the inner registration payload.
type RegisterUser struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries the login payload nested under "user".
type LoginRequest struct {
	User LoginUser `json:"user"`
}

// LoginUser is the inner login payload.
type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register godoc
// @Summary Register a new account
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation(map[string][]string{"body": {"unable to parse request"}})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, access, refresh, err := h.authService.Register(c.Request().Context(), req.User.Username, req.User.Email, req.User.Password)
	if err != nil {
		switch err {
		case errors.ErrEmailTaken:
			return errors.Validation(map[string][]string{"email": {"is already registered"}})
		case errors.ErrUsernameTaken:
			return errors.Validation(map[string][]string{"username": {"is already taken"}})
		}
		return err
	}

	view := userView(account)
	view["token"] = access
	view["refresh_token"] = refresh
	return h.env.JSON(c, http.StatusCreated, view)
}

// Login godoc
// @Summary Log in with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation(map[string][]string{"body": {"unable to parse request"}})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, access, refresh, err := h.authService.Login(c.Request().Context(), req.User.Email, req.User.Password)
	if err != nil {
		if err == errors.ErrInvalidCredentials {
			return errors.Validation(map[string][]string{"error": {"invalid email or password"}})
		}
		return err
	}

	view := userView(account)
	view["token"] = access
	view["refresh_token"] = refresh
	return h.env.JSON(c, http.StatusOK, view)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /users/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation(map[string][]string{"body": {"unable to parse request"}})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if err == errors.ErrInvalidRefreshToken {
			return errors.Validation(map[string][]string{"refresh_token": {"is invalid or expired"}}).
				WithStatus(http.StatusUnauthorized)
		}
		return err
	}

	return h.env.JSON(c, http.StatusOK, map[string]any{"token": access})
}

// Logout godoc
// @Summary Invalidate a refresh token
// @Tags users
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation(map[string][]string{"body": {"unable to parse request"}})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		if err == errors.ErrInvalidRefreshToken {
			return errors.Validation(map[string][]string{"refresh_token": {"is invalid or expired"}}).
				WithStatus(http.StatusUnauthorized)
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}
