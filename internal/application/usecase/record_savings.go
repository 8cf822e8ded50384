package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/domain/repository"
	"github.com/bnema/tabsaver/internal/logging"
)

// RecordSavingsUseCase maintains the savings aggregate. Purely additive
// bookkeeping: it is only invoked on the freeze success branch and has no
// correctness dependency on the freeze path.
type RecordSavingsUseCase struct {
	savings repository.SavingsRepository
	now     func() time.Time
}

// NewRecordSavingsUseCase creates the savings use case. now may be nil for
// time.Now.
func NewRecordSavingsUseCase(savings repository.SavingsRepository, now func() time.Time) *RecordSavingsUseCase {
	if now == nil {
		now = time.Now
	}
	return &RecordSavingsUseCase{savings: savings, now: now}
}

// Record merges a freeze event into the history and persists it.
func (uc *RecordSavingsUseCase) Record(ctx context.Context, tabCount, savedMB int) error {
	history, err := uc.savings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load savings history: %w", err)
	}
	if history == nil {
		history = &entity.SavingsHistory{}
	}

	history.Record(tabCount, savedMB, uc.now())

	if err := uc.savings.Save(ctx, history); err != nil {
		return fmt.Errorf("save savings history: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Int("tabs", tabCount).
		Int("saved_mb", savedMB).
		Msg("savings recorded")
	return nil
}

// History returns the stored aggregate for reporting.
func (uc *RecordSavingsUseCase) History(ctx context.Context) (*entity.SavingsHistory, error) {
	history, err := uc.savings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load savings history: %w", err)
	}
	if history == nil {
		history = &entity.SavingsHistory{}
	}
	return history, nil
}
