package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clubhub/internal/config"
	"clubhub/internal/db"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

// seedMember describes a demo account created by the seed script.
type seedMember struct {
	Name        string
	Username    string
	Email       string
	FixedAmount string
	PaidMonths  int // completed payments counted back from last month
}

var demoMembers = []seedMember{
	{Name: "Omar Hassan", Username: "omar", Email: "omar@club.local", FixedAmount: "500", PaidMonths: 6},
	{Name: "Sara Adel", Username: "sara", Email: "sara@club.local", FixedAmount: "500", PaidMonths: 3},
	{Name: "Youssef Nabil", Username: "youssef", Email: "youssef@club.local", FixedAmount: "750", PaidMonths: 0},
	{Name: "Nour El-Din", Username: "nour", Email: "nour@club.local", FixedAmount: "500", PaidMonths: 1},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Payment{}, &model.Expense{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	ctx := context.Background()

	if err := seedAdmin(ctx, userRepo, cfg); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	created, skipped, err := seedMembers(ctx, userRepo, paymentRepo, demoMembers)
	if err != nil {
		log.Fatalf("Failed to seed members: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New members created: %d", created)
	log.Printf("  - Existing members skipped: %d", skipped)
}

// seedAdmin creates the default admin account from configuration if missing.
func seedAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config) error {
	if _, err := users.FindByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Printf("Admin %q already exists, skipping", cfg.AdminUsername)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	email := cfg.AdminEmail
	admin := &model.User{
		Name:         "Administrator",
		Username:     cfg.AdminUsername,
		Email:        &email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Created admin %q", cfg.AdminUsername)
	return nil
}

// seedMembers creates demo member accounts with a backlog of completed
// payments. Members that already exist are left untouched.
func seedMembers(
	ctx context.Context,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	members []seedMember,
) (created int, skipped int, err error) {
	for _, m := range members {
		if _, err := users.FindByUsername(ctx, m.Username); err == nil {
			log.Printf("Member %q already exists, skipping", m.Username)
			skipped++
			continue
		} else if err != gorm.ErrRecordNotFound {
			return created, skipped, fmt.Errorf("error checking member %s: %w", m.Username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(m.Username+"123"), bcrypt.DefaultCost)
		if err != nil {
			return created, skipped, err
		}
		fixed, err := decimal.NewFromString(m.FixedAmount)
		if err != nil {
			return created, skipped, fmt.Errorf("invalid fixed amount for %s: %w", m.Username, err)
		}

		email := m.Email
		user := &model.User{
			Name:         m.Name,
			Username:     m.Username,
			Email:        &email,
			PasswordHash: string(hash),
			Role:         model.RoleMember,
			FixedAmount:  fixed,
		}
		if err := users.Create(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("error creating member %s: %w", m.Username, err)
		}

		now := time.Now()
		for i := 1; i <= m.PaidMonths; i++ {
			month := model.MonthOf(now.AddDate(0, -i, 0))
			payment := &model.Payment{
				UserID: user.ID,
				Month:  month,
				Amount: fixed,
				Status: model.PaymentStatusCompleted,
			}
			if err := payments.Upsert(ctx, payment); err != nil {
				return created, skipped, fmt.Errorf("error seeding payment %s/%s: %w", m.Username, month, err)
			}
		}

		log.Printf("Created member %q with %d completed payments", m.Username, m.PaidMonths)
		created++
	}

	return created, skipped, nil
}
