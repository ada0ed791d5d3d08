package main

import (
	"context"
	"log"
	"net/http"

	_ "clubhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	"clubhub/internal/cache"
	"clubhub/internal/config"
	"clubhub/internal/db"
	"clubhub/internal/handler"
	"clubhub/internal/mail"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/router"
	"clubhub/internal/service"
	"clubhub/internal/storage"
)

// @title ClubHub API
// @version 1.0
// @description Club management API with member accounts, monthly dues tracking, expenses, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Payment{},
		&model.Expense{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)

	if err := ensureAdmin(context.Background(), userRepo, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	codeStore := auth.NewCodeStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, codeStore, mailer)
	userService := service.NewUserService(userRepo, store)
	paymentService := service.NewPaymentService(userRepo, paymentRepo, store)
	expenseService := service.NewExpenseService(expenseRepo, store)
	reportService := service.NewReportService(paymentRepo, expenseRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		paymentHandler,
		expenseHandler,
		reportHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// newStore selects the upload backend from configuration.
func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.UploadBackend == "minio" {
		return storage.NewMinioStore(
			context.Background(),
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
		)
	}
	return storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
}

// ensureAdmin creates the bootstrap admin account on first start. Without it
// a fresh deployment has no way to log in, since self-signup is disabled.
func ensureAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config) error {
	_, err := users.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
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
	log.Printf("Bootstrap admin account %q created", cfg.AdminUsername)
	return nil
}
