package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/domain/repository"
)

type savingsRepo struct {
	db *sql.DB
}

// NewSavingsRepository creates the SQLite-backed savings ledger.
func NewSavingsRepository(db *sql.DB) repository.SavingsRepository {
	return &savingsRepo{db: db}
}

func (r *savingsRepo) Load(ctx context.Context) (*entity.SavingsHistory, error) {
	history := &entity.SavingsHistory{}
	err := r.db.QueryRowContext(ctx,
		"SELECT total_saved_mb, total_tabs_frozen FROM savings_totals WHERE id = 1",
	).Scan(&history.TotalSavedMB, &history.TotalTabsFrozen)
	if err != nil {
		return nil, fmt.Errorf("load savings totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT date, tabs_frozen, saved_mb FROM savings_records ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("load savings records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var record entity.SavingsRecord
		if err := rows.Scan(&record.Date, &record.TabsFrozen, &record.EstimatedSavedMB); err != nil {
			return nil, fmt.Errorf("scan savings record: %w", err)
		}
		history.Records = append(history.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(history.Records) == 0 && history.TotalSavedMB == 0 && history.TotalTabsFrozen == 0 {
		return nil, nil
	}
	return history, nil
}

// Save replaces the stored history wholesale. The window trim happens in
// the domain layer; this just persists whatever survived it.
func (r *savingsRepo) Save(ctx context.Context, history *entity.SavingsHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin savings save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM savings_records"); err != nil {
		return fmt.Errorf("clear savings records: %w", err)
	}
	for _, record := range history.Records {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO savings_records (date, tabs_frozen, saved_mb) VALUES (?, ?, ?)",
			record.Date, record.TabsFrozen, record.EstimatedSavedMB,
		); err != nil {
			return fmt.Errorf("insert savings record %s: %w", record.Date, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE savings_totals SET total_saved_mb = ?, total_tabs_frozen = ? WHERE id = 1",
		history.TotalSavedMB, history.TotalTabsFrozen,
	); err != nil {
		return fmt.Errorf("update savings totals: %w", err)
	}
	return tx.Commit()
}
