package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/storage"
)

const proofFolder = "payments"

// TotalSummary is an aggregate over amounts.
type TotalSummary struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// UnpaidResult lists the users lacking a completed payment for a month.
type UnpaidResult struct {
	Month string       `json:"month"`
	Users []model.User `json:"users"`
}

// PaymentService handles dues submissions, admin transitions and listings.
type PaymentService interface {
	Submit(ctx context.Context, userID uuid.UUID, month string, amount *decimal.Decimal, proof *multipart.FileHeader) (*model.Payment, error)
	Mark(ctx context.Context, id uuid.UUID, status model.PaymentStatus, amount *decimal.Decimal) (*model.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	Unpaid(ctx context.Context, month string) (*UnpaidResult, error)
	Total(ctx context.Context, status model.PaymentStatus) (*TotalSummary, error)
	Dues(ctx context.Context, userID uuid.UUID) (*DuesSummary, error)
}

type paymentService struct {
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
	store       storage.Store
	now         func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(userRepo repository.UserRepository, paymentRepo repository.PaymentRepository, store storage.Store) PaymentService {
	return &paymentService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		store:       store,
		now:         time.Now,
	}
}

// Submit upserts the member's payment for a month. The amount resolves in
// priority order: positive override, then the previous record's positive
// amount, then the member's positive fixed amount, then zero (the admin can
// correct it on approval). Status always resets to pending and a new proof
// replaces the old one; without a new proof the old reference is kept.
// Repeated submissions for the same month update in place.
func (s *paymentService) Submit(ctx context.Context, userID uuid.UUID, month string, amount *decimal.Decimal, proof *multipart.FileHeader) (*model.Payment, error) {
	if !model.ValidMonth(month) {
		return nil, errors.ErrInvalidMonth
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	existing, err := s.paymentRepo.FindByUserAndMonth(ctx, userID, month)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load payment: %w", err)
	}

	final := decimal.Zero
	switch {
	case amount != nil && amount.IsPositive():
		final = *amount
	case existing != nil && existing.Amount.IsPositive():
		final = existing.Amount
	case user.FixedAmount.IsPositive():
		final = user.FixedAmount
	}

	proofURL := ""
	if existing != nil {
		proofURL = existing.ProofURL
	}
	uploaded := ""
	if proof != nil {
		uploaded, err = saveUpload(ctx, s.store, proofFolder, proof, storage.ProofTypes, storage.MaxProofSize)
		if err != nil {
			return nil, err
		}
		proofURL = uploaded
	}

	payment := &model.Payment{
		UserID:   userID,
		Month:    month,
		Amount:   final,
		Status:   model.PaymentStatusPending,
		ProofURL: proofURL,
	}
	if err := s.paymentRepo.Upsert(ctx, payment); err != nil {
		if uploaded != "" {
			_ = s.store.Remove(ctx, uploaded)
		}
		return nil, fmt.Errorf("upsert payment: %w", err)
	}

	// reload: on conflict the original row (and its id) survives
	return s.paymentRepo.FindByUserAndMonth(ctx, userID, month)
}

// Mark transitions a payment's status, optionally correcting the amount.
// pending -> completed is the only forward move; completed is terminal and a
// regression to pending is rejected with the record left untouched.
func (s *paymentService) Mark(ctx context.Context, id uuid.UUID, status model.PaymentStatus, amount *decimal.Decimal) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == model.PaymentStatusCompleted && status == model.PaymentStatusPending {
		return nil, errors.ErrCompletedImmutable
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, errors.ErrInvalidAmount
		}
		payment.Amount = *amount
	}
	payment.Status = status

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

func (s *paymentService) List(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	return s.paymentRepo.List(ctx, status)
}

// Unpaid lists users without a completed payment for the month; a pending
// record still counts as unpaid.
func (s *paymentService) Unpaid(ctx context.Context, month string) (*UnpaidResult, error) {
	if !model.ValidMonth(month) {
		return nil, errors.ErrInvalidMonth
	}
	ids, err := s.paymentRepo.CompletedUserIDs(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("load completed payments: %w", err)
	}
	users, err := s.userRepo.ListExcluding(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return &UnpaidResult{Month: month, Users: users}, nil
}

func (s *paymentService) Total(ctx context.Context, status model.PaymentStatus) (*TotalSummary, error) {
	total, count, err := s.paymentRepo.Sum(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	return &TotalSummary{Total: total, Count: count}, nil
}

// Dues computes the member's dues summary from their join date and payment
// history as of now.
func (s *paymentService) Dues(ctx context.Context, userID uuid.UUID) (*DuesSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	payments, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	summary := ComputeDues(user.CreatedAt, user.FixedAmount, payments, s.now())
	return &summary, nil
}
