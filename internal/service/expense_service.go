package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/storage"
)

const expenseFolder = "expenses"

const latestExpenseLimit = 20

// ExpenseInput carries the fields for a new expense.
type ExpenseInput struct {
	Type   string
	Amount decimal.Decimal
	Date   time.Time
	Note   string
	Proof  *multipart.FileHeader
}

// UpdateExpenseInput carries partial updates; nil fields are left untouched.
type UpdateExpenseInput struct {
	Type   *string
	Amount *decimal.Decimal
	Date   *time.Time
	Note   *string
}

// ExpenseService handles club expenditures.
type ExpenseService interface {
	Create(ctx context.Context, in ExpenseInput) (*model.Expense, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateExpenseInput) (*model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Latest(ctx context.Context) ([]model.Expense, error)
	Total(ctx context.Context) (*TotalSummary, error)
}

type expenseService struct {
	repo  repository.ExpenseRepository
	store storage.Store
}

// NewExpenseService creates a new expense service.
func NewExpenseService(repo repository.ExpenseRepository, store storage.Store) ExpenseService {
	return &expenseService{repo: repo, store: store}
}

// Create stores a new expense, uploading the proof first and removing it
// best-effort if the record write fails.
func (s *expenseService) Create(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		return nil, errors.ErrExpenseType
	}
	if !in.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	proofURL := ""
	var err error
	if in.Proof != nil {
		proofURL, err = saveUpload(ctx, s.store, expenseFolder, in.Proof, storage.ProofTypes, storage.MaxProofSize)
		if err != nil {
			return nil, err
		}
	}

	expense := &model.Expense{
		Type:     typ,
		Amount:   in.Amount,
		Date:     in.Date,
		Note:     in.Note,
		ProofURL: proofURL,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		if proofURL != "" {
			_ = s.store.Remove(ctx, proofURL)
		}
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

// Update applies a partial update.
func (s *expenseService) Update(ctx context.Context, id uuid.UUID, in UpdateExpenseInput) (*model.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}

	if in.Type != nil {
		typ := strings.TrimSpace(*in.Type)
		if typ == "" {
			return nil, errors.ErrExpenseType
		}
		expense.Type = typ
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, errors.ErrInvalidAmount
		}
		expense.Amount = *in.Amount
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	if in.Note != nil {
		expense.Note = *in.Note
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *expenseService) Latest(ctx context.Context) ([]model.Expense, error) {
	return s.repo.ListLatest(ctx, latestExpenseLimit)
}

func (s *expenseService) Total(ctx context.Context) (*TotalSummary, error) {
	total, count, err := s.repo.Sum(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	return &TotalSummary{Total: total, Count: count}, nil
}
