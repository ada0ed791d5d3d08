package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/storage"
)

const bcryptCost = 10

const avatarFolder = "avatars"

// CreateUserInput carries the fields for an admin-created account.
type CreateUserInput struct {
	Name        string
	Username    string
	Email       string
	Password    string
	Role        string
	FixedAmount decimal.Decimal
	Avatar      *multipart.FileHeader
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Name        *string
	Username    *string
	Email       *string
	Role        *string
	FixedAmount *decimal.Decimal
}

// UserService exposes member account operations. All of them are admin-only
// at the route level; there is no self-signup.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	SetBlocked(ctx context.Context, actorID, id uuid.UUID, blocked bool) (*model.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	store storage.Store
}

// NewUserService builds a UserService over the repository and upload store.
func NewUserService(repo repository.UserRepository, store storage.Store) UserService {
	return &userService{repo: repo, store: store}
}

// Create stores a new account. The avatar, if any, is uploaded first; when
// the record write fails the stored file is removed best-effort.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	username := strings.ToLower(in.Username)
	taken, err := s.repo.UsernameTaken(ctx, username, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, errors.ErrUsernameTaken
	}

	var email *string
	if in.Email != "" {
		lower := strings.ToLower(in.Email)
		taken, err := s.repo.EmailTaken(ctx, lower, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, errors.ErrEmailTaken
		}
		email = &lower
	}

	if in.FixedAmount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	role := in.Role
	if role == "" {
		role = model.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatarURL := ""
	if in.Avatar != nil {
		avatarURL, err = saveUpload(ctx, s.store, avatarFolder, in.Avatar, storage.AvatarTypes, storage.MaxAvatarSize)
		if err != nil {
			return nil, err
		}
	}

	user := &model.User{
		Name:         in.Name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FixedAmount:  in.FixedAmount,
		AvatarURL:    avatarURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if avatarURL != "" {
			_ = s.store.Remove(ctx, avatarURL)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies a partial update, enforcing username/email uniqueness
// against every account but the one being edited.
func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Username != nil {
		username := strings.ToLower(*in.Username)
		taken, err := s.repo.UsernameTaken(ctx, username, id)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, errors.ErrUsernameTaken
		}
		user.Username = username
	}
	if in.Email != nil {
		if *in.Email == "" {
			user.Email = nil
		} else {
			lower := strings.ToLower(*in.Email)
			taken, err := s.repo.EmailTaken(ctx, lower, id)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, errors.ErrEmailTaken
			}
			user.Email = &lower
		}
	}
	if in.FixedAmount != nil {
		if in.FixedAmount.IsNegative() {
			return nil, errors.ErrInvalidAmount
		}
		user.FixedAmount = *in.FixedAmount
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SetBlocked toggles the blocked flag. Admins cannot block themselves.
func (s *userService) SetBlocked(ctx context.Context, actorID, id uuid.UUID, blocked bool) (*model.User, error) {
	if blocked && actorID == id {
		return nil, errors.ErrSelfBlock
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	user.IsBlocked = blocked
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SetPassword replaces the credential with a fresh hash.
func (s *userService) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the account. The user's payments cascade with it; expenses
// are standalone and untouched.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}
