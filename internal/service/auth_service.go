package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clubhub/internal/auth"
	"clubhub/internal/errors"
	"clubhub/internal/mail"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

// AuthService handles login and the email verification flow.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	RequestEmailCode(ctx context.Context, email string) error
	VerifyEmailCode(ctx context.Context, email, code string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	codeStore  auth.CodeStoreInterface
	mailer     mail.Mailer // nil disables delivery; codes are logged instead
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, codeStore auth.CodeStoreInterface, mailer mail.Mailer) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		codeStore:  codeStore,
		mailer:     mailer,
	}
}

// Login authenticates by username and password and issues a token carrying
// the subject's id and role. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// RequestEmailCode generates a six-digit code for a not-yet-registered email,
// stores its hash with a TTL and mails it out.
func (s *authService) RequestEmailCode(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	taken, err := s.userRepo.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return errors.ErrEmailTaken
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.codeStore.StoreCode(ctx, email, code); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if s.mailer == nil {
		log.Printf("[signup code] email=%s code=%s", email, code)
		return nil
	}
	body := fmt.Sprintf("Your verification code is: %s. It expires in 5 minutes.", code)
	if err := s.mailer.Send(email, "Your verification code", body); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// VerifyEmailCode checks the code against the stored hash and consumes it.
func (s *authService) VerifyEmailCode(ctx context.Context, email, code string) error {
	ok, err := s.codeStore.VerifyCode(ctx, strings.ToLower(email), code)
	if err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	if !ok {
		return errors.ErrInvalidCode
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
