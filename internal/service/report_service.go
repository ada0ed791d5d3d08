package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"clubhub/internal/model"
	"clubhub/internal/repository"
)

// BalanceSummary is the club balance: completed payment income minus all
// expenses. It is derived, never persisted, and recomputed on every read.
type BalanceSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// ReportService exposes derived aggregates.
type ReportService interface {
	Balance(ctx context.Context) (*BalanceSummary, error)
}

type reportService struct {
	paymentRepo repository.PaymentRepository
	expenseRepo repository.ExpenseRepository
}

// NewReportService creates a new report service.
func NewReportService(paymentRepo repository.PaymentRepository, expenseRepo repository.ExpenseRepository) ReportService {
	return &reportService{paymentRepo: paymentRepo, expenseRepo: expenseRepo}
}

func (s *reportService) Balance(ctx context.Context) (*BalanceSummary, error) {
	income, _, err := s.paymentRepo.Sum(ctx, model.PaymentStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	expenses, _, err := s.expenseRepo.Sum(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	return &BalanceSummary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}, nil
}
