package service

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"conduit/internal/cache"
	"conduit/internal/errors"
	"conduit/internal/model"
	"conduit/internal/repository"
)

// ProfileService resolves public profiles by username.
type ProfileService interface {
	Get(ctx context.Context, username string) (*model.Account, error)
}

type profileService struct {
	accountRepo repository.AccountRepository
	cache       *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(accountRepo repository.AccountRepository, cacheClient *cache.Client) ProfileService {
	return &profileService{
		accountRepo: accountRepo,
		cache:       cacheClient,
	}
}

// Get returns the account owning the named profile, with the profile loaded.
// Unknown usernames and deactivated accounts both miss.
func (s *profileService) Get(ctx context.Context, username string) (*model.Account, error) {
	if data, _ := s.cache.Get(ctx, cache.ProfileKey(username)); data != nil {
		var cached model.Account
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProfileNotFound
		}
		return nil, err
	}
	if !account.Active {
		return nil, errors.ErrProfileNotFound
	}

	if payload, err := json.Marshal(account); err == nil {
		_ = s.cache.Set(ctx, cache.ProfileKey(username), payload, cache.ProfileTTL)
	}

	return account, nil
}
