package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"conduit/internal/errors"
	"conduit/internal/render"
	"conduit/internal/service"
)

// UserHandler handles the authenticated account endpoints.
type UserHandler struct {
	accountService service.AccountService
	env            render.Envelope
	listEnv        render.Envelope
}

// NewUserHandler creates a new user handler.
func NewUserHandler(accountService service.AccountService) *UserHandler {
	return &UserHandler{
		accountService: accountService,
		env: render.Envelope{
			Label:      "user",
			Transforms: []render.FieldTransform{render.DecodeToken("token", "refresh_token")},
		},
		listEnv: render.Envelope{Label: "users"},
	}
}

// UpdateUserRequest carries the update payload nested under "user".
type UpdateUserRequest struct {
	User UpdateUser `json:"user"`
}

// UpdateUser is the inner update payload. Pointers distinguish absent fields
// from fields set to the empty string.
type UpdateUser struct {
	Username *string `json:"username" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=128"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// Current godoc
// @Summary Get the authenticated account
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /user [get]
func (h *UserHandler) Current(c echo.Context) error {
	account, err := h.accountService.GetByID(c.Request().Context(), accountID(c))
	if err != nil {
		if err == errors.ErrAccountNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return err
	}

	view := userView(account)
	view["token"] = []byte(rawToken(c))
	return h.env.JSON(c, http.StatusOK, view)
}

// Update godoc
// @Summary Update the authenticated account
// @Tags user
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /user [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.Validation(map[string][]string{"body": {"unable to parse request"}})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := service.AccountUpdate{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	}

	account, err := h.accountService.Update(c.Request().Context(), accountID(c), input)
	if err != nil {
		switch err {
		case errors.ErrAccountNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		case errors.ErrEmailTaken:
			return errors.Validation(map[string][]string{"email": {"is already registered"}})
		case errors.ErrUsernameTaken:
			return errors.Validation(map[string][]string{"username": {"is already taken"}})
		}
		return err
	}

	view := userView(account)
	view["token"] = []byte(rawToken(c))
	return h.env.JSON(c, http.StatusOK, view)
}

// Deactivate godoc
// @Summary Deactivate the authenticated account
// @Tags user
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /user [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.accountService.Deactivate(c.Request().Context(), accountID(c)); err != nil {
		if err == errors.ErrAccountNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "account deactivated"})
}

// List godoc
// @Summary List all accounts, newest first
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	current, err := h.accountService.GetByID(c.Request().Context(), accountID(c))
	if err != nil || !current.IsStaff {
		return echo.NewHTTPError(http.StatusForbidden, "staff access required")
	}

	accounts, err := h.accountService.List(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]map[string]any, 0, len(accounts))
	for i := range accounts {
		views = append(views, userView(&accounts[i]))
	}
	return h.listEnv.JSON(c, http.StatusOK, views)
}

// accountID extracts the authenticated account ID from the request token.
func accountID(c echo.Context) uint {
	token := c.Get("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := claims["account_id"].(float64)
	return uint(id)
}

// rawToken returns the compact token string from the Authorization header.
func rawToken(c echo.Context) string {
	return c.Get("user").(*jwt.Token).Raw
}
