package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"conduit/internal/errors"
	"conduit/internal/model"
	"conduit/internal/router"
	"conduit/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*model.Account, []byte, []byte, error) {
	args := m.Called(ctx, username, email, password)
	return accountArg(args, 0), bytesArg(args, 1), bytesArg(args, 2), args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.Account, []byte, []byte, error) {
	args := m.Called(ctx, email, password)
	return accountArg(args, 0), bytesArg(args, 1), bytesArg(args, 2), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) ([]byte, error) {
	args := m.Called(ctx, refreshToken)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetByID(ctx context.Context, id uint) (*model.Account, error) {
	args := m.Called(ctx, id)
	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, id uint, input service.AccountUpdate) (*model.Account, error) {
	args := m.Called(ctx, id, input)
	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountService) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountService) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

// MockProfileService is a mock implementation of service.ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, username string) (*model.Account, error) {
	args := m.Called(ctx, username)
	return accountArg(args, 0), args.Error(1)
}

func accountArg(args mock.Arguments, i int) *model.Account {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*model.Account)
}

func bytesArg(args mock.Arguments, i int) []byte {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]byte)
}

// newTestEcho builds an echo instance with the production validator and
// error handler wired in.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = router.NewValidator()
	e.HTTPErrorHandler = errors.HTTPErrorHandler
	return e
}

// doJSON performs a request against the echo instance. A string body is sent
// raw; anything else is marshalled to JSON.
func doJSON(e *echo.Echo, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	default:
		b, _ := json.Marshal(v)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
