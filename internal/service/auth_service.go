package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conduit/internal/auth"
	"conduit/internal/errors"
	"conduit/internal/model"
	"conduit/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration and authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (account *model.Account, accessToken, refreshToken []byte, err error)
	Login(ctx context.Context, email, password string) (account *model.Account, accessToken, refreshToken []byte, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken []byte, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// Register creates a new account together with its profile and returns a
// fresh token pair. The two rows are written in one transaction.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.Account, []byte, []byte, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, nil, errors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, nil, nil, fmt.Errorf("check email: %w", err)
	}

	existing, err = s.accountRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, nil, nil, errors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, nil, nil, fmt.Errorf("check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Active:       true,
	}

	if err := s.accountRepo.CreateWithProfile(ctx, account); err != nil {
		return nil, nil, nil, fmt.Errorf("create account: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, nil, err
	}
	return account, accessToken, refreshToken, nil
}

// Login authenticates an account and returns access and refresh tokens.
// Deactivated accounts are rejected the same way as wrong passwords.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Account, []byte, []byte, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, nil, errors.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, nil, nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, nil, errors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, nil, err
	}
	return account, accessToken, refreshToken, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) ([]byte, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken
	}
	if claims.ID == "" {
		return nil, errors.ErrInvalidRefreshToken
	}

	session, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken
	}
	if session.AccountID != claims.AccountID || session.Email != claims.Email {
		return nil, errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.AccountID, claims.Username, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return errors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

func (s *authService) issueTokens(ctx context.Context, account *model.Account) (accessToken, refreshToken []byte, err error) {
	accessToken, err = s.jwtService.GenerateAccessToken(account.ID, account.Username, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(account.ID, account.Username, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := auth.RefreshSession{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, session, auth.RefreshTokenExpiry); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
