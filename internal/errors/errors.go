package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrProfileNotFound is returned when a profile is not found or its account is inactive.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEmailTaken is returned when registering or updating to an email that is already in use.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrUsernameTaken is returned when registering or updating to a username that is already in use.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Error kinds select a response handler from the registry.
const (
	KindValidation      = "validation_error"
	KindProfileNotFound = "profile_not_found"
)

// ProfileNotFoundDetail is the fixed message served when a profile lookup misses.
const ProfileNotFoundDetail = "The requested profile does not exist."

// APIError is a failure with a named kind, a response status, and a detail
// payload. The kind selects the handler that renders it.
type APIError struct {
	Kind   string
	Status int
	Detail any
}

func (e *APIError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
}

// WithStatus overrides the response status at the raise site.
func (e *APIError) WithStatus(status int) *APIError {
	e.Status = status
	return e
}

// WithDetail overrides the detail payload at the raise site.
func (e *APIError) WithDetail(detail any) *APIError {
	e.Detail = detail
	return e
}

// Validation builds a validation-failure error. Detail is typically a
// field-to-messages map or a short string for unparseable bodies.
func Validation(detail any) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Detail: detail}
}

// ProfileNotFound builds a profile-not-found error carrying the fixed
// default message and status. Both can be overridden where it is raised.
func ProfileNotFound() *APIError {
	return &APIError{Kind: KindProfileNotFound, Status: http.StatusBadRequest, Detail: ProfileNotFoundDetail}
}

// HandlerFunc renders one error kind onto the response.
type HandlerFunc func(c echo.Context, e *APIError) error

// registry maps kind names to render functions. Kinds without an entry fall
// through to echo's default handler untouched.
var registry = map[string]HandlerFunc{
	KindValidation:      handleGeneric,
	KindProfileNotFound: handleGeneric,
}

// Register adds or replaces the handler for an error kind.
func Register(kind string, fn HandlerFunc) {
	registry[kind] = fn
}

// handleGeneric emits the default unwrapped error shape. Response envelopes
// recognize the "errors" key and never re-wrap it.
func handleGeneric(c echo.Context, e *APIError) error {
	return c.JSON(e.Status, map[string]any{"errors": e.Detail})
}

// HTTPErrorHandler dispatches APIError values through the kind registry and
// delegates everything else to echo's default handler. Wire it into
// echo.Echo.HTTPErrorHandler.
func HTTPErrorHandler(err error, c echo.Context) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if fn, ok := registry[apiErr.Kind]; ok {
			if c.Response().Committed {
				return
			}
			if renderErr := fn(c, apiErr); renderErr != nil {
				c.Logger().Error(renderErr)
			}
			return
		}
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
