package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
)

func testDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	logger := logging.NewFromConfigValues("debug", "console")
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(ctx, db))
	return db, ctx
}

func TestNewConnectionCreatesFileAndSchema(t *testing.T) {
	logger := logging.NewFromConfigValues("debug", "console")
	ctx := logging.WithContext(context.Background(), logger)

	dbPath := filepath.Join(t.TempDir(), "state", "tabsaver.db")
	db, err := NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	require.NoError(t, db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='frozen_tabs'",
	).Scan(&name))
	assert.Equal(t, "frozen_tabs", name)
}

func TestNewConnectionRejectsEmptyPath(t *testing.T) {
	_, err := NewConnection(context.Background(), "")
	assert.Error(t, err)
}

func TestFrozenStateRepoRoundTrip(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewFrozenStateRepository(db)

	frozenAt := time.Date(2026, time.March, 14, 9, 26, 0, 0, time.UTC)
	state := &entity.FrozenTabState{
		TabID:       42,
		OriginalURL: "https://docs.example/page",
		Title:       "Docs",
		FavIconURL:  "https://docs.example/favicon.ico",
		ScrollX:     10,
		ScrollY:     1200,
		Pinned:      true,
		WindowID:    3,
		Index:       5,
		GroupID:     2,
		FrozenAt:    frozenAt,
	}
	require.NoError(t, repo.Put(ctx, state))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state, got)
}

func TestFrozenStateRepoGetMissingReturnsNil(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewFrozenStateRepository(db)

	got, err := repo.Get(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFrozenStateRepoPutUpserts(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewFrozenStateRepository(db)

	require.NoError(t, repo.Put(ctx, &entity.FrozenTabState{TabID: 1, OriginalURL: "https://a.example", ScrollY: 100}))
	require.NoError(t, repo.Put(ctx, &entity.FrozenTabState{TabID: 1, OriginalURL: "https://b.example", ScrollY: 200}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "https://b.example", all[1].OriginalURL)
	assert.Equal(t, 200, all[1].ScrollY)
}

func TestFrozenStateRepoDeleteAndClear(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewFrozenStateRepository(db)

	require.NoError(t, repo.Put(ctx, &entity.FrozenTabState{TabID: 1, OriginalURL: "https://a.example"}))
	require.NoError(t, repo.Put(ctx, &entity.FrozenTabState{TabID: 2, OriginalURL: "https://b.example"}))

	require.NoError(t, repo.Delete(ctx, 1))
	require.NoError(t, repo.Delete(ctx, 1), "deleting an absent entry is not an error")

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, repo.Clear(ctx))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSavingsRepoLoadEmptyReturnsNil(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewSavingsRepository(db)

	history, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestSavingsRepoRoundTrip(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewSavingsRepository(db)

	history := &entity.SavingsHistory{
		Records: []entity.SavingsRecord{
			{Date: "2026-03-13", TabsFrozen: 2, EstimatedSavedMB: 150},
			{Date: "2026-03-14", TabsFrozen: 4, EstimatedSavedMB: 420},
		},
		TotalSavedMB:    570,
		TotalTabsFrozen: 6,
	}
	require.NoError(t, repo.Save(ctx, history))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, history, got)
}

func TestSavingsRepoSaveReplacesTrimmedRecords(t *testing.T) {
	db, ctx := testDB(t)
	repo := NewSavingsRepository(db)

	require.NoError(t, repo.Save(ctx, &entity.SavingsHistory{
		Records:         []entity.SavingsRecord{{Date: "2026-01-01", TabsFrozen: 1, EstimatedSavedMB: 50}},
		TotalSavedMB:    50,
		TotalTabsFrozen: 1,
	}))
	// A later save where the old record fell out of the window keeps the
	// lifetime totals.
	require.NoError(t, repo.Save(ctx, &entity.SavingsHistory{
		Records:         []entity.SavingsRecord{{Date: "2026-03-14", TabsFrozen: 2, EstimatedSavedMB: 100}},
		TotalSavedMB:    150,
		TotalTabsFrozen: 3,
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "2026-03-14", got.Records[0].Date)
	assert.Equal(t, 150, got.TotalSavedMB)
	assert.Equal(t, 3, got.TotalTabsFrozen)
}
