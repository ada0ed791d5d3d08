package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"clubhub/internal/errors"
	"clubhub/internal/model"
)

func newTestPaymentService(userRepo *MockUserRepository, paymentRepo *MockPaymentRepository, store *MockStore) *paymentService {
	svc := NewPaymentService(userRepo, paymentRepo, store).(*paymentService)
	svc.now = func() time.Time { return time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestPaymentService_Submit(t *testing.T) {
	userID := uuid.New()
	member := &model.User{ID: userID, FixedAmount: decimal.NewFromInt(500)}

	tests := []struct {
		name          string
		month         string
		amount        *decimal.Decimal
		setupMock     func(*MockUserRepository, *MockPaymentRepository)
		wantAmount    string
		wantProof     string
		expectedError error
	}{
		{
			name:          "invalid month token",
			month:         "2024-13",
			setupMock:     func(mu *MockUserRepository, mp *MockPaymentRepository) {},
			expectedError: errors.ErrInvalidMonth,
		},
		{
			name:  "first submission falls back to the fixed amount",
			month: "2024-08",
			setupMock: func(mu *MockUserRepository, mp *MockPaymentRepository) {
				mu.On("FindByID", mock.Anything, userID).Return(member, nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(nil, gorm.ErrRecordNotFound).Once()
				mp.On("Upsert", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(&model.Payment{UserID: userID, Month: "2024-08"}, nil).Once()
			},
			wantAmount: "500",
		},
		{
			name:   "positive override beats everything",
			month:  "2024-08",
			amount: decimalPtr("750"),
			setupMock: func(mu *MockUserRepository, mp *MockPaymentRepository) {
				mu.On("FindByID", mock.Anything, userID).Return(member, nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(&model.Payment{UserID: userID, Month: "2024-08", Amount: decimal.NewFromInt(500)}, nil).Once()
				mp.On("Upsert", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(&model.Payment{UserID: userID, Month: "2024-08"}, nil).Once()
			},
			wantAmount: "750",
		},
		{
			name:  "resubmission keeps the previous amount and proof, resets status",
			month: "2024-07",
			setupMock: func(mu *MockUserRepository, mp *MockPaymentRepository) {
				mu.On("FindByID", mock.Anything, userID).Return(member, nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-07").
					Return(&model.Payment{
						UserID:   userID,
						Month:    "2024-07",
						Amount:   decimal.NewFromInt(650),
						Status:   model.PaymentStatusCompleted,
						ProofURL: "/uploads/payments/old.png",
					}, nil).Once()
				mp.On("Upsert", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-07").
					Return(&model.Payment{UserID: userID, Month: "2024-07"}, nil).Once()
			},
			wantAmount: "650",
			wantProof:  "/uploads/payments/old.png",
		},
		{
			name:   "non-positive override is ignored",
			month:  "2024-08",
			amount: decimalPtr("0"),
			setupMock: func(mu *MockUserRepository, mp *MockPaymentRepository) {
				mu.On("FindByID", mock.Anything, userID).Return(member, nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(nil, gorm.ErrRecordNotFound).Once()
				mp.On("Upsert", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
				mp.On("FindByUserAndMonth", mock.Anything, userID, "2024-08").
					Return(&model.Payment{UserID: userID, Month: "2024-08"}, nil).Once()
			},
			wantAmount: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockPayments := new(MockPaymentRepository)
			mockStore := new(MockStore)
			tt.setupMock(mockUsers, mockPayments)

			svc := newTestPaymentService(mockUsers, mockPayments, mockStore)
			payment, err := svc.Submit(context.Background(), userID, tt.month, tt.amount, nil)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, payment)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, payment)

				upserted := mockPayments.Calls[1].Arguments.Get(1).(*model.Payment)
				assert.True(t, upserted.Amount.Equal(decimal.RequireFromString(tt.wantAmount)),
					"amount: want %s, got %s", tt.wantAmount, upserted.Amount)
				assert.Equal(t, model.PaymentStatusPending, upserted.Status)
				assert.Equal(t, tt.wantProof, upserted.ProofURL)
			}

			mockUsers.AssertExpectations(t)
			mockPayments.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Mark(t *testing.T) {
	paymentID := uuid.New()

	tests := []struct {
		name          string
		status        model.PaymentStatus
		amount        *decimal.Decimal
		setupMock     func(*MockPaymentRepository)
		expectedError error
	}{
		{
			name:   "pending to completed",
			status: model.PaymentStatusCompleted,
			setupMock: func(mp *MockPaymentRepository) {
				mp.On("FindByID", mock.Anything, paymentID).
					Return(&model.Payment{ID: paymentID, Status: model.PaymentStatusPending}, nil)
				mp.On("Update", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
			},
		},
		{
			name:   "completed back to pending is rejected",
			status: model.PaymentStatusPending,
			setupMock: func(mp *MockPaymentRepository) {
				mp.On("FindByID", mock.Anything, paymentID).
					Return(&model.Payment{ID: paymentID, Status: model.PaymentStatusCompleted}, nil)
			},
			expectedError: errors.ErrCompletedImmutable,
		},
		{
			name:   "completed to completed with amount correction",
			status: model.PaymentStatusCompleted,
			amount: decimalPtr("600"),
			setupMock: func(mp *MockPaymentRepository) {
				mp.On("FindByID", mock.Anything, paymentID).
					Return(&model.Payment{ID: paymentID, Status: model.PaymentStatusCompleted, Amount: decimal.NewFromInt(500)}, nil)
				mp.On("Update", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)
			},
		},
		{
			name:   "non-positive amount correction is rejected",
			status: model.PaymentStatusCompleted,
			amount: decimalPtr("-5"),
			setupMock: func(mp *MockPaymentRepository) {
				mp.On("FindByID", mock.Anything, paymentID).
					Return(&model.Payment{ID: paymentID, Status: model.PaymentStatusPending}, nil)
			},
			expectedError: errors.ErrInvalidAmount,
		},
		{
			name:   "unknown payment",
			status: model.PaymentStatusCompleted,
			setupMock: func(mp *MockPaymentRepository) {
				mp.On("FindByID", mock.Anything, paymentID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrPaymentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockPayments := new(MockPaymentRepository)
			mockStore := new(MockStore)
			tt.setupMock(mockPayments)

			svc := newTestPaymentService(mockUsers, mockPayments, mockStore)
			payment, err := svc.Mark(context.Background(), paymentID, tt.status, tt.amount)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, payment)
				mockPayments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, payment.Status)
				if tt.amount != nil {
					assert.True(t, payment.Amount.Equal(*tt.amount))
				}
			}

			mockPayments.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Unpaid(t *testing.T) {
	paidID := uuid.New()
	unpaidUser := model.User{ID: uuid.New(), Name: "Sara Adel"}

	t.Run("invalid month", func(t *testing.T) {
		svc := newTestPaymentService(new(MockUserRepository), new(MockPaymentRepository), new(MockStore))
		result, err := svc.Unpaid(context.Background(), "08-2024")
		assert.ErrorIs(t, err, errors.ErrInvalidMonth)
		assert.Nil(t, result)
	})

	t.Run("members without a completed payment", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPayments := new(MockPaymentRepository)
		mockPayments.On("CompletedUserIDs", mock.Anything, "2024-08").Return([]uuid.UUID{paidID}, nil)
		mockUsers.On("ListExcluding", mock.Anything, []uuid.UUID{paidID}).Return([]model.User{unpaidUser}, nil)

		svc := newTestPaymentService(mockUsers, mockPayments, new(MockStore))
		result, err := svc.Unpaid(context.Background(), "2024-08")

		assert.NoError(t, err)
		assert.Equal(t, "2024-08", result.Month)
		assert.Equal(t, []model.User{unpaidUser}, result.Users)
		mockUsers.AssertExpectations(t)
		mockPayments.AssertExpectations(t)
	})
}

func TestPaymentService_Total(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockPayments.On("Sum", mock.Anything, model.PaymentStatusCompleted).
		Return(decimal.NewFromInt(4500), int64(9), nil)

	svc := newTestPaymentService(new(MockUserRepository), mockPayments, new(MockStore))
	summary, err := svc.Total(context.Background(), model.PaymentStatusCompleted)

	assert.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, int64(9), summary.Count)
}

func TestPaymentService_Dues(t *testing.T) {
	userID := uuid.New()

	t.Run("unknown member", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestPaymentService(mockUsers, new(MockPaymentRepository), new(MockStore))
		summary, err := svc.Dues(context.Background(), userID)

		assert.ErrorIs(t, err, errors.ErrUserNotFound)
		assert.Nil(t, summary)
	})

	t.Run("summary from join date and history", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPayments := new(MockPaymentRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:          userID,
			FixedAmount: decimal.NewFromInt(500),
			CreatedAt:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		}, nil)
		mockPayments.On("ListByUser", mock.Anything, userID).Return([]model.Payment{
			completedPayment("2024-05"),
		}, nil)

		svc := newTestPaymentService(mockUsers, mockPayments, new(MockStore))
		summary, err := svc.Dues(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "2024-05", summary.JoinMonth)
		assert.Equal(t, []string{"2024-06", "2024-07"}, summary.DueMonths)
		assert.True(t, summary.TotalDue.Equal(decimal.NewFromInt(1000)))
	})
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
