package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conduit/internal/config"
	"conduit/internal/db"
	"conduit/internal/model"
	"conduit/internal/repository"
)

// seedAccount is one demo account with its profile data.
type seedAccount struct {
	Username string
	Email    string
	Password string
	Bio      string
	Image    string
	IsStaff  bool
}

var demoAccounts = []seedAccount{
	{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin-password",
		Bio:      "Site administrator.",
		IsStaff:  true,
	},
	{
		Username: "jake",
		Email:    "jake@example.com",
		Password: "jakejake",
		Bio:      "I work at statefarm.",
		Image:    "https://static.productionready.io/images/smiley-cyrus.jpg",
	},
	{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "annaanna",
		Bio:      "Coffee, code, repeat.",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Account{}, &model.Profile{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	accountRepo := repository.NewAccountRepository(gormDB)
	ctx := context.Background()

	log.Println("Seeding demo accounts...")
	created, updated, err := seedAccounts(ctx, accountRepo, demoAccounts)
	if err != nil {
		log.Fatalf("Failed to seed accounts: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New accounts created: %d", created)
	log.Printf("  - Existing accounts updated: %d", updated)
}

// seedAccounts upserts demo accounts. New accounts get their profile in the
// same transaction; existing ones keep their profile untouched.
func seedAccounts(ctx context.Context, repo repository.AccountRepository, seeds []seedAccount) (created, updated int, err error) {
	for _, seed := range seeds {
		existing, err := repo.FindByUsername(ctx, seed.Username)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, updated, fmt.Errorf("check account %s: %w", seed.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, updated, fmt.Errorf("hash password for %s: %w", seed.Username, err)
		}

		if existing != nil {
			existing.Email = seed.Email
			existing.PasswordHash = string(hashed)
			existing.IsStaff = seed.IsStaff
			existing.Active = true
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update account %s: %w", seed.Username, err)
			}
			updated++
			continue
		}

		account := model.Account{
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: string(hashed),
			Active:       true,
			IsStaff:      seed.IsStaff,
			Profile: model.Profile{
				Bio:   seed.Bio,
				Image: seed.Image,
			},
		}
		if err := repo.CreateWithProfile(ctx, &account); err != nil {
			return created, updated, fmt.Errorf("create account %s: %w", seed.Username, err)
		}
		created++
	}

	return created, updated, nil
}
