package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/domain/repository"
	"github.com/bnema/tabsaver/internal/logging"
)

type frozenStateRepo struct {
	db *sql.DB
}

// NewFrozenStateRepository creates the SQLite-backed frozen state store.
func NewFrozenStateRepository(db *sql.DB) repository.FrozenStateRepository {
	return &frozenStateRepo{db: db}
}

const frozenColumns = "tab_id, original_url, title, favicon_url, scroll_x, scroll_y, pinned, window_id, tab_index, group_id, frozen_at"

func (r *frozenStateRepo) All(ctx context.Context) (map[entity.TabID]*entity.FrozenTabState, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+frozenColumns+" FROM frozen_tabs")
	if err != nil {
		return nil, fmt.Errorf("query frozen tabs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	states := make(map[entity.TabID]*entity.FrozenTabState)
	for rows.Next() {
		state, err := scanFrozenState(rows)
		if err != nil {
			return nil, err
		}
		states[state.TabID] = state
	}
	return states, rows.Err()
}

func (r *frozenStateRepo) Get(ctx context.Context, id entity.TabID) (*entity.FrozenTabState, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+frozenColumns+" FROM frozen_tabs WHERE tab_id = ?", int(id))
	state, err := scanFrozenState(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (r *frozenStateRepo) Put(ctx context.Context, state *entity.FrozenTabState) error {
	log := logging.FromContext(ctx)
	log.Debug().Int("tab_id", int(state.TabID)).Str("url", state.OriginalURL).Msg("storing frozen state")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO frozen_tabs (`+frozenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tab_id) DO UPDATE SET
			original_url = excluded.original_url,
			title = excluded.title,
			favicon_url = excluded.favicon_url,
			scroll_x = excluded.scroll_x,
			scroll_y = excluded.scroll_y,
			pinned = excluded.pinned,
			window_id = excluded.window_id,
			tab_index = excluded.tab_index,
			group_id = excluded.group_id,
			frozen_at = excluded.frozen_at`,
		int(state.TabID), state.OriginalURL, state.Title, state.FavIconURL,
		state.ScrollX, state.ScrollY, state.Pinned, state.WindowID,
		state.Index, state.GroupID, state.FrozenAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store frozen state for tab %d: %w", state.TabID, err)
	}
	return nil
}

func (r *frozenStateRepo) Delete(ctx context.Context, id entity.TabID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM frozen_tabs WHERE tab_id = ?", int(id)); err != nil {
		return fmt.Errorf("delete frozen state for tab %d: %w", id, err)
	}
	return nil
}

func (r *frozenStateRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM frozen_tabs"); err != nil {
		return fmt.Errorf("clear frozen states: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFrozenState(row rowScanner) (*entity.FrozenTabState, error) {
	var state entity.FrozenTabState
	var tabID int
	var frozenAt string
	err := row.Scan(
		&tabID, &state.OriginalURL, &state.Title, &state.FavIconURL,
		&state.ScrollX, &state.ScrollY, &state.Pinned, &state.WindowID,
		&state.Index, &state.GroupID, &frozenAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan frozen state: %w", err)
	}
	state.TabID = entity.TabID(tabID)
	if t, perr := time.Parse(time.RFC3339Nano, frozenAt); perr == nil {
		state.FrozenAt = t
	}
	return &state, nil
}
