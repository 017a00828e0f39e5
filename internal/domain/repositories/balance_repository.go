package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// BalanceRepository defines operations on prepaid usage balances.
type BalanceRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserBalance, error)
	// Deduct atomically subtracts minutes from the user's balance. It fails
	// with errors.ErrInsufficientBalance when the balance would go negative
	// and errors.ErrIneligibleAccount when the account cannot be charged.
	// A plain read-then-write is not acceptable here.
	Deduct(ctx context.Context, userID uuid.UUID, minutes int64) error
}
