package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"warehouse-grid/internal/warehouse/models"
)

// ============================================================
// SQLite Journal
// ============================================================

const defaultHistoryLimit = 100

// Journal — журнал принятых переходов. Сетка из него не восстанавливается.
type Journal struct {
	db *sql.DB
}

func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Init применяет миграции.
func (j *Journal) Init(ctx context.Context, migrationsPath string) error {
	if err := j.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *Journal) Record(ctx context.Context, t models.Transition) error {
	_, err := j.db.ExecContext(ctx, `
        INSERT INTO transitions (warehouse_id, kind, row_index, column_index, previous, status)
        VALUES (?, ?, ?, ?, ?, ?)
    `, t.WarehouseID, t.Kind, t.Row, t.Column, t.Previous, t.Status)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// History возвращает записи склада, новые первыми.
func (j *Journal) History(ctx context.Context, warehouseID string, limit int) ([]models.Transition, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := j.db.QueryContext(ctx, `
        SELECT id, warehouse_id, kind, row_index, column_index, previous, status, created_at
        FROM transitions
        WHERE warehouse_id = ?
        ORDER BY id DESC
        LIMIT ?
    `, warehouseID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	history := []models.Transition{}
	for rows.Next() {
		var t models.Transition
		if err := rows.Scan(&t.ID, &t.WarehouseID, &t.Kind, &t.Row, &t.Column, &t.Previous, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, t)
	}
	return history, rows.Err()
}

// ============================================================
// Migrations
// ============================================================

func (j *Journal) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := j.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
