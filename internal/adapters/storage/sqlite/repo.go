package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository persists whole board snapshots in a sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			wip_limit INTEGER NOT NULL DEFAULT 0,
			accepts_cards INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS swimlanes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			swimlane_id TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			labels_json TEXT NOT NULL DEFAULT '[]',
			locked INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(column_id) REFERENCES columns(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_group ON cards(column_id, swimlane_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Empty reports whether the database holds no columns yet.
func (r *Repository) Empty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns`).Scan(&count); err != nil {
		return false, fmt.Errorf("count columns: %w", err)
	}
	return count == 0, nil
}

// LoadSnapshot reads the full board state.
func (r *Repository) LoadSnapshot(ctx context.Context) (board.Snapshot, error) {
	columns, err := r.loadColumns(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	swimlanes, err := r.loadSwimlanes(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	cards, err := r.loadCards(ctx)
	if err != nil {
		return board.Snapshot{}, err
	}
	snap := board.Snapshot{Columns: columns, Cards: cards, Swimlanes: swimlanes}
	// Hosts may hand the database corrupted positions; repair on read.
	return snap.Normalized(), nil
}

// SaveSnapshot replaces the stored board wholesale in one transaction.
func (r *Repository) SaveSnapshot(ctx context.Context, snap board.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"cards", "swimlanes", "columns"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, column := range snap.Columns {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO columns(id, name, position, wip_limit, accepts_cards, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, column.ID, column.Name, column.Order, column.WIPLimit, boolToInt(column.AcceptsCards), ts(column.CreatedAt), ts(column.UpdatedAt)); err != nil {
			return fmt.Errorf("insert column %s: %w", column.ID, err)
		}
	}
	for _, lane := range snap.Swimlanes {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO swimlanes(id, name, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, lane.ID, lane.Name, lane.Order, ts(lane.CreatedAt), ts(lane.UpdatedAt)); err != nil {
			return fmt.Errorf("insert swimlane %s: %w", lane.ID, err)
		}
	}
	for _, card := range snap.Cards {
		var labelsJSON []byte
		labelsJSON, err = json.Marshal(card.Labels)
		if err != nil {
			return fmt.Errorf("encode labels for %s: %w", card.ID, err)
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO cards(id, column_id, swimlane_id, position, title, description, labels_json, locked, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, card.ID, card.ColumnID, card.SwimlaneID, card.Order, card.Title, card.Description, string(labelsJSON), boolToInt(card.Locked), ts(card.CreatedAt), ts(card.UpdatedAt)); err != nil {
			return fmt.Errorf("insert card %s: %w", card.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *Repository) loadColumns(ctx context.Context) ([]domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, position, wip_limit, accepts_cards, created_at, updated_at
		FROM columns
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Column{}
	for rows.Next() {
		var (
			c          domain.Column
			accepts    int
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Order, &c.WIPLimit, &accepts, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		c.AcceptsCards = accepts != 0
		c.CreatedAt = parseTS(createdRaw)
		c.UpdatedAt = parseTS(updatedRaw)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) loadSwimlanes(ctx context.Context) ([]domain.Swimlane, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, position, created_at, updated_at
		FROM swimlanes
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Swimlane{}
	for rows.Next() {
		var (
			lane       domain.Swimlane
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&lane.ID, &lane.Name, &lane.Order, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		lane.CreatedAt = parseTS(createdRaw)
		lane.UpdatedAt = parseTS(updatedRaw)
		out = append(out, lane)
	}
	return out, rows.Err()
}

func (r *Repository) loadCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_id, swimlane_id, position, title, description, labels_json, locked, created_at, updated_at
		FROM cards
		ORDER BY column_id ASC, swimlane_id ASC, position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Card{}
	for rows.Next() {
		var (
			card       domain.Card
			labelsRaw  string
			locked     int
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&card.ID, &card.ColumnID, &card.SwimlaneID, &card.Order, &card.Title, &card.Description, &labelsRaw, &locked, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		if strings.TrimSpace(labelsRaw) == "" {
			labelsRaw = "[]"
		}
		if err := json.Unmarshal([]byte(labelsRaw), &card.Labels); err != nil {
			return nil, fmt.Errorf("decode card labels_json: %w", err)
		}
		card.Locked = locked != 0
		card.CreatedAt = parseTS(createdRaw)
		card.UpdatedAt = parseTS(updatedRaw)
		out = append(out, card)
	}
	return out, rows.Err()
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
