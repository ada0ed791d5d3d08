package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	"clubhub/internal/errors"
	"clubhub/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "omar",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				m.On("FindByUsername", mock.Anything, "omar").Return(&model.User{
					ID:           uuid.New(),
					Username:     "omar",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleMember,
				}, nil)
			},
		},
		{
			name:     "username is lowercased before lookup",
			username: "OMAR",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				m.On("FindByUsername", mock.Anything, "omar").Return(&model.User{
					ID:           uuid.New(),
					Username:     "omar",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleMember,
				}, nil)
			},
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "omar",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				m.On("FindByUsername", mock.Anything, "omar").Return(&model.User{
					ID:           uuid.New(),
					Username:     "omar",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, new(MockCodeStore), nil)

			token, user, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, user)

				claims, err := jwtService.ValidateToken(token)
				assert.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, user.Role, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RequestEmailCode(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockCodeStore, *MockMailer)
		expectedError error
	}{
		{
			name:  "code stored and mailed",
			email: "new@club.local",
			setupMock: func(mRepo *MockUserRepository, mCodes *MockCodeStore, mMailer *MockMailer) {
				mRepo.On("EmailTaken", mock.Anything, "new@club.local", uuid.Nil).Return(false, nil)
				mCodes.On("StoreCode", mock.Anything, "new@club.local", mock.AnythingOfType("string")).Return(nil)
				mMailer.On("Send", "new@club.local", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:  "email already registered",
			email: "taken@club.local",
			setupMock: func(mRepo *MockUserRepository, mCodes *MockCodeStore, mMailer *MockMailer) {
				mRepo.On("EmailTaken", mock.Anything, "taken@club.local", uuid.Nil).Return(true, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockCodes := new(MockCodeStore)
			mockMailer := new(MockMailer)
			tt.setupMock(mockRepo, mockCodes, mockMailer)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockCodes, mockMailer)
			err := service.RequestEmailCode(context.Background(), tt.email)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockCodes.AssertExpectations(t)
			mockMailer.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyEmailCode(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		mockCodes := new(MockCodeStore)
		mockCodes.On("VerifyCode", mock.Anything, "new@club.local", "123456").Return(true, nil)

		service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), mockCodes, nil)
		err := service.VerifyEmailCode(context.Background(), "New@club.local", "123456")

		assert.NoError(t, err)
		mockCodes.AssertExpectations(t)
	})

	t.Run("wrong or expired code", func(t *testing.T) {
		mockCodes := new(MockCodeStore)
		mockCodes.On("VerifyCode", mock.Anything, "new@club.local", "000000").Return(false, nil)

		service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), mockCodes, nil)
		err := service.VerifyEmailCode(context.Background(), "new@club.local", "000000")

		assert.ErrorIs(t, err, errors.ErrInvalidCode)
	})
}
