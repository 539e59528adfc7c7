package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conduit/internal/errors"
	"conduit/internal/render"
	"conduit/internal/service"
)

// ProfileHandler handles public profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
	env            render.Envelope
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		env:            render.Envelope{Label: "profile"},
	}
}

// Get godoc
// @Summary Get a public profile by username
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /profiles/{username} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	account, err := h.profileService.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		if err == errors.ErrProfileNotFound {
			return errors.ProfileNotFound()
		}
		return err
	}

	return h.env.JSON(c, http.StatusOK, profileView(account))
}
