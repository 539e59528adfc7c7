package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conduit/internal/cache"
	"conduit/internal/errors"
	"conduit/internal/model"
	"conduit/internal/repository"
)

// AccountUpdate carries the requested changes to an account and its profile.
// Nil means "leave as is"; a pointer to the empty string clears the field.
type AccountUpdate struct {
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Image    *string
}

// AccountService handles account operations.
type AccountService interface {
	GetByID(ctx context.Context, id uint) (*model.Account, error)
	Update(ctx context.Context, id uint, input AccountUpdate) (*model.Account, error)
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.Account, error)
}

type accountService struct {
	repo        repository.AccountRepository
	profileRepo repository.ProfileRepository
	cache       *cache.Client
}

// NewAccountService creates a new account service.
func NewAccountService(repo repository.AccountRepository, profileRepo repository.ProfileRepository, cacheClient *cache.Client) AccountService {
	return &accountService{
		repo:        repo,
		profileRepo: profileRepo,
		cache:       cacheClient,
	}
}

// GetByID retrieves an account with its profile, using the cache when warm.
func (s *accountService) GetByID(ctx context.Context, id uint) (*model.Account, error) {
	if data, _ := s.cache.Get(ctx, cache.AccountKey(id)); data != nil {
		var cached model.Account
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAccountNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(account); err == nil {
		_ = s.cache.Set(ctx, cache.AccountKey(id), payload, cache.AccountTTL)
	}

	return account, nil
}

// Update applies the requested changes. The account row is saved first and
// the profile row second, so a concurrent reader can observe the account
// change before the profile change but never the reverse.
func (s *accountService) Update(ctx context.Context, id uint, input AccountUpdate) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	staleKeys := []string{cache.AccountKey(id), cache.ProfileKey(account.Username)}

	if input.Email != nil && *input.Email != account.Email {
		if existing, err := s.repo.FindByEmail(ctx, *input.Email); err == nil && existing.ID != id {
			return nil, errors.ErrEmailTaken
		} else if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check email: %w", err)
		}
		account.Email = *input.Email
	}
	if input.Username != nil && *input.Username != account.Username {
		if existing, err := s.repo.FindByUsername(ctx, *input.Username); err == nil && existing.ID != id {
			return nil, errors.ErrUsernameTaken
		} else if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check username: %w", err)
		}
		account.Username = *input.Username
		staleKeys = append(staleKeys, cache.ProfileKey(account.Username))
	}
	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = string(hashedPassword)
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	profile := account.Profile
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Image != nil {
		profile.Image = *input.Image
	}
	if err := s.profileRepo.Update(ctx, &profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	account.Profile = profile

	_ = s.cache.Delete(ctx, staleKeys...)

	return account, nil
}

// Deactivate soft-deletes an account. The row and its profile survive but
// profile lookups no longer resolve it.
func (s *accountService) Deactivate(ctx context.Context, id uint) error {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAccountNotFound
		}
		return fmt.Errorf("load account: %w", err)
	}

	account.Active = false
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.AccountKey(id), cache.ProfileKey(account.Username))

	return nil
}

// List returns all accounts, newest first.
func (s *accountService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
