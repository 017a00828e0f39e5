package repository

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// BalanceRepository handles prepaid usage balances
type BalanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// FindByUserID retrieves a user's balance
func (r *BalanceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserBalance, error) {
	var balance entities.UserBalance
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error; err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

// Deduct atomically subtracts minutes from the user's balance. The guard is
// part of the UPDATE itself, so concurrent deductions can never drive the
// balance negative; RowsAffected distinguishes "no such row / guard failed"
// from success.
func (r *BalanceRepository) Deduct(ctx context.Context, userID uuid.UUID, minutes int64) error {
	if minutes <= 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entities.UserBalance{}).
		Where("user_id = ? AND eligible = ? AND remaining_minutes >= ?", userID, true, minutes).
		Update("remaining_minutes", gorm.Expr("remaining_minutes - ?", minutes))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The conditional update matched nothing; look at the row to report why
	balance, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if balance == nil || !balance.Eligible {
		return errors.ErrIneligibleAccount(userID.String())
	}
	return errors.ErrInsufficientBalance(userID.String())
}
