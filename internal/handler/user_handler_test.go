package handler_test

import (
	"net/http"
	"testing"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"conduit/internal/auth"
	"conduit/internal/errors"
	"conduit/internal/handler"
	"conduit/internal/model"
	"conduit/internal/service"
)

const testSecret = "test-secret"

func securedEcho(h *handler.UserHandler) *echo.Echo {
	e := newTestEcho()
	secured := e.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(testSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))
	secured.GET("/user", h.Current)
	secured.PUT("/user", h.Update)
	secured.DELETE("/user", h.Deactivate)
	secured.GET("/users", h.List)
	return e
}

func accessTokenFor(t *testing.T, id uint, username, email string) string {
	t.Helper()

	token, err := auth.NewJWTService(testSecret).GenerateAccessToken(id, username, email)
	require.NoError(t, err)
	return string(token)
}

func TestUserHandlerCurrent(t *testing.T) {
	t.Run("returns the account and echoes the bearer token", func(t *testing.T) {
		mockSvc := new(MockAccountService)
		mockSvc.On("GetByID", mock.Anything, uint(7)).Return(registeredAccount(), nil)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodGet, "/api/user", nil, token)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		user := body["user"].(map[string]any)
		assert.Equal(t, "jake", user["username"])
		assert.Equal(t, "jake@example.com", user["email"])
		assert.Equal(t, token, user["token"])
		assert.Equal(t, "https://static.productionready.io/images/smiley-cyrus.jpg", user["image"])

		mockSvc.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		e := securedEcho(handler.NewUserHandler(new(MockAccountService)))

		rec := doJSON(e, http.MethodGet, "/api/user", nil, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		e := securedEcho(handler.NewUserHandler(new(MockAccountService)))

		forged, err := auth.NewJWTService("other-secret").GenerateAccessToken(7, "jake", "jake@example.com")
		require.NoError(t, err)

		rec := doJSON(e, http.MethodGet, "/api/user", nil, string(forged))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandlerUpdate(t *testing.T) {
	t.Run("forwards only the fields present", func(t *testing.T) {
		updated := registeredAccount()
		updated.Profile.Bio = "new bio"

		mockSvc := new(MockAccountService)
		mockSvc.On("Update", mock.Anything, uint(7), mock.MatchedBy(func(in service.AccountUpdate) bool {
			return in.Bio != nil && *in.Bio == "new bio" &&
				in.Username == nil && in.Email == nil && in.Password == nil && in.Image == nil
		})).Return(updated, nil)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodPut, "/api/user", map[string]any{
			"user": map[string]any{"bio": "new bio"},
		}, token)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		user := body["user"].(map[string]any)
		assert.Equal(t, "new bio", user["bio"])
		assert.Equal(t, token, user["token"])

		mockSvc.AssertExpectations(t)
	})

	t.Run("distinguishes empty bio from absent bio", func(t *testing.T) {
		updated := registeredAccount()
		updated.Profile.Bio = ""

		mockSvc := new(MockAccountService)
		mockSvc.On("Update", mock.Anything, uint(7), mock.MatchedBy(func(in service.AccountUpdate) bool {
			return in.Bio != nil && *in.Bio == ""
		})).Return(updated, nil)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodPut, "/api/user", map[string]any{
			"user": map[string]any{"bio": ""},
		}, token)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("email conflict", func(t *testing.T) {
		mockSvc := new(MockAccountService)
		mockSvc.On("Update", mock.Anything, uint(7), mock.Anything).
			Return(nil, errors.ErrEmailTaken)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodPut, "/api/user", map[string]any{
			"user": map[string]any{"email": "taken@example.com"},
		}, token)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		errs := body["errors"].(map[string]any)
		assert.Equal(t, []any{"is already registered"}, errs["email"])
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		mockSvc := new(MockAccountService)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodPut, "/api/user", map[string]any{
			"user": map[string]any{"email": "not-an-email"},
		}, token)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "email")

		mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserHandlerDeactivate(t *testing.T) {
	mockSvc := new(MockAccountService)
	mockSvc.On("Deactivate", mock.Anything, uint(7)).Return(nil)

	e := securedEcho(handler.NewUserHandler(mockSvc))
	token := accessTokenFor(t, 7, "jake", "jake@example.com")

	rec := doJSON(e, http.MethodDelete, "/api/user", nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "account deactivated", body["message"])

	mockSvc.AssertExpectations(t)
}

func TestUserHandlerList(t *testing.T) {
	t.Run("staff can list accounts", func(t *testing.T) {
		staff := registeredAccount()
		staff.IsStaff = true

		mockSvc := new(MockAccountService)
		mockSvc.On("GetByID", mock.Anything, uint(7)).Return(staff, nil)
		mockSvc.On("List", mock.Anything).Return([]model.Account{
			{ID: 2, Username: "anna", Email: "anna@example.com"},
			{ID: 1, Username: "jake", Email: "jake@example.com"},
		}, nil)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodGet, "/api/users", nil, token)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		users := body["users"].([]any)
		assert.Len(t, users, 2)
		first := users[0].(map[string]any)
		assert.Equal(t, "anna", first["username"])
	})

	t.Run("non-staff is refused", func(t *testing.T) {
		mockSvc := new(MockAccountService)
		mockSvc.On("GetByID", mock.Anything, uint(7)).Return(registeredAccount(), nil)

		e := securedEcho(handler.NewUserHandler(mockSvc))
		token := accessTokenFor(t, 7, "jake", "jake@example.com")

		rec := doJSON(e, http.MethodGet, "/api/users", nil, token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mockSvc.AssertNotCalled(t, "List", mock.Anything)
	})
}
