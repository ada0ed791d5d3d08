package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clubhub/internal/model"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Upsert(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByUserAndMonth(ctx context.Context, userID uuid.UUID, month string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	CompletedUserIDs(ctx context.Context, month string) ([]uuid.UUID, error)
	Sum(ctx context.Context, status model.PaymentStatus) (decimal.Decimal, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Upsert inserts the payment or, when a row for (user_id, month) already
// exists, overwrites its amount, status and proof in place. The unique index
// plus ON CONFLICT keeps concurrent submissions at exactly one row,
// last write wins.
func (r *paymentRepository) Upsert(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "proof_url", "updated_at"}),
	}).Create(payment).Error
}

// Update updates an existing payment record.
func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByID finds a payment by ID.
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByUserAndMonth finds the single payment for a (user, month) pair.
func (r *paymentRepository) FindByUserAndMonth(ctx context.Context, userID uuid.UUID, month string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists one member's payments, newest first.
func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// List lists payments with their owning user preloaded, newest first.
// An empty status means no filter.
func (r *paymentRepository) List(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	var payments []model.Payment
	q := r.db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CompletedUserIDs returns the ids of users holding a completed payment for
// the given month.
func (r *paymentRepository) CompletedUserIDs(ctx context.Context, month string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("month = ? AND status = ?", month, model.PaymentStatusCompleted).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Sum aggregates amount and row count, optionally filtered by status.
// Computed fresh on every call; never cached.
func (r *paymentRepository) Sum(ctx context.Context, status model.PaymentStatus) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	q := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}
