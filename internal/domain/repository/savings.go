package repository

import (
	"context"

	"github.com/bnema/tabsaver/internal/domain/entity"
)

// SavingsRepository persists the savings aggregate.
type SavingsRepository interface {
	// Load returns the stored history, or an empty history when none exists.
	Load(ctx context.Context) (*entity.SavingsHistory, error)

	// Save replaces the stored history.
	Save(ctx context.Context, history *entity.SavingsHistory) error
}
