package repository

import (
	"context"

	"gorm.io/gorm"

	"conduit/internal/model"
)

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	CreateWithProfile(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CreateWithProfile inserts the account and its profile in a single
// transaction. Either both rows exist afterwards or neither does.
func (r *accountRepository) CreateWithProfile(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(account).Error; err != nil {
			return err
		}
		account.Profile.AccountID = account.ID
		return tx.Create(&account.Profile).Error
	})
}

// Update persists account fields. The profile row is never touched here.
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Omit("Profile").Save(account).Error
}

// FindByID finds an account by ID with its profile loaded.
func (r *accountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Preload("Profile").First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email with its profile loaded.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByUsername finds an account by username with its profile loaded.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("username = ?", username).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns all accounts with profiles, newest first.
func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.WithContext(ctx).Preload("Profile").
		Order("created_at DESC, updated_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
