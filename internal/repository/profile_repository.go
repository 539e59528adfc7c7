package repository

import (
	"context"

	"gorm.io/gorm"

	"conduit/internal/model"
)

// ProfileRepository defines profile persistence operations. Profiles are
// created through AccountRepository.CreateWithProfile, never here.
type ProfileRepository interface {
	FindByAccountID(ctx context.Context, accountID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByAccountID finds the profile owned by an account.
func (r *profileRepository) FindByAccountID(ctx context.Context, accountID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update persists profile fields.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
