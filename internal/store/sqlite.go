package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// SQLiteStore implements StrategyStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the strategy database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Saved strategies: legs and stock are JSON documents
	CREATE TABLE IF NOT EXISTS strategies (
		name TEXT PRIMARY KEY,
		notes TEXT NOT NULL DEFAULT '',
		legs TEXT NOT NULL,
		stock TEXT,
		leg_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_strategies_updated ON strategies(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveStrategy inserts or replaces a strategy, keeping the original creation time.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, saved *SavedStrategy) error {
	name, err := NormalizeName(saved.Name)
	if err != nil {
		return err
	}
	notes, err := NormalizeNotes(saved.Notes)
	if err != nil {
		return err
	}
	if err := saved.Strategy.RequireLegs(); err != nil {
		return err
	}

	legs, err := json.Marshal(saved.Strategy.Legs)
	if err != nil {
		return apperrors.NewStoreError("save", name, err)
	}
	var stock sql.NullString
	if saved.Strategy.Stock != nil {
		b, err := json.Marshal(saved.Strategy.Stock)
		if err != nil {
			return apperrors.NewStoreError("save", name, err)
		}
		stock = sql.NullString{String: string(b), Valid: true}
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO strategies (name, notes, legs, stock, leg_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			notes = excluded.notes,
			legs = excluded.legs,
			stock = excluded.stock,
			leg_count = excluded.leg_count,
			updated_at = excluded.updated_at
	`, name, notes, string(legs), stock, len(saved.Strategy.Legs), now, now)
	if err != nil {
		return apperrors.NewStoreError("save", name, fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err))
	}

	saved.Name = name
	saved.Notes = notes
	saved.Strategy.Name = name
	return nil
}

// GetStrategy retrieves a strategy by name.
func (s *SQLiteStore) GetStrategy(ctx context.Context, name string) (*SavedStrategy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, notes, legs, stock, created_at, updated_at
		FROM strategies WHERE name = ?
	`, name)

	saved, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewStoreError("get", name, apperrors.ErrStrategyNotFound)
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", name, err)
	}
	return saved, nil
}

// ListStrategies returns every saved strategy ordered by name.
func (s *SQLiteStore) ListStrategies(ctx context.Context) ([]SavedStrategy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, notes, legs, stock, created_at, updated_at
		FROM strategies ORDER BY name ASC
	`)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "", fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err))
	}
	defer rows.Close()

	var list []SavedStrategy
	for rows.Next() {
		saved, err := scanStrategy(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("list", "", err)
		}
		list = append(list, *saved)
	}

	return list, rows.Err()
}

// DeleteStrategy removes a strategy by name.
func (s *SQLiteStore) DeleteStrategy(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM strategies WHERE name = ?`, name)
	if err != nil {
		return apperrors.NewStoreError("delete", name, fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewStoreError("delete", name, apperrors.ErrStrategyNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row scanner) (*SavedStrategy, error) {
	var (
		saved     SavedStrategy
		legsJSON  string
		stockJSON sql.NullString
	)
	if err := row.Scan(&saved.Name, &saved.Notes, &legsJSON, &stockJSON, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(legsJSON), &saved.Strategy.Legs); err != nil {
		return nil, fmt.Errorf("decoding legs: %w", err)
	}
	if stockJSON.Valid {
		var stock models.StockLeg
		if err := json.Unmarshal([]byte(stockJSON.String), &stock); err != nil {
			return nil, fmt.Errorf("decoding stock: %w", err)
		}
		saved.Strategy.Stock = &stock
	}
	saved.Strategy.Name = saved.Name
	return &saved, nil
}
