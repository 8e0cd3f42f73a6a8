package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/jonnyb/group-order/internal/models"
)

// Ensure SQLiteRepository implements OrderRepository
var _ OrderRepository = (*SQLiteRepository)(nil)

// schema sets up the order tables. Participants live in their own table
// with a composite primary key, so joining an order is a single
// conflict-ignoring insert rather than a read-modify-write on an array
// column. Max is deliberately NOT constrained here; capacity is a
// service-layer guard only.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    entry_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    item TEXT NOT NULL,
    min INTEGER NOT NULL,
    max INTEGER NOT NULL,
    price REAL NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('solo', 'shared')),
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_participants (
    entry_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (entry_id, name),
    FOREIGN KEY (entry_id) REFERENCES orders(entry_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_orders_item ON orders(item);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_order_participants_entry_id ON order_participants(entry_id);
`

// SQLiteRepository implements OrderRepository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed order repository at the given path.
// It creates the parent directories and runs migrations automatically.
func NewSQLite(dbPath string) (*SQLiteRepository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new order with the owner as sole participant.
func (r *SQLiteRepository) Create(ctx context.Context, order *models.Order) error {
	if order.CreatedAt == "" {
		// Nanosecond precision keeps created_at usable for change
		// detection when orders land in the same second.
		order.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if len(order.Participants) == 0 {
		order.Participants = []string{order.Name}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM orders WHERE entry_id = ?", order.EntryID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check entry id: %w", err)
	}
	if exists > 0 {
		return ErrDuplicateEntry
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (entry_id, name, item, min, max, price, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		order.EntryID, order.Name, order.Item, order.Min, order.Max, order.Price, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, name := range order.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_participants (entry_id, name, position) VALUES (?, ?, ?)",
			order.EntryID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves an order by entry ID, including its participant list.
func (r *SQLiteRepository) Get(ctx context.Context, entryID string) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.QueryRowContext(ctx,
		"SELECT entry_id, name, item, min, max, price, status, created_at FROM orders WHERE entry_id = ?",
		entryID,
	).Scan(&order.EntryID, &order.Name, &order.Item, &order.Min, &order.Max, &order.Price, &order.Status, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.loadParticipants(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// List returns all orders, oldest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.listWhere(ctx,
		"SELECT entry_id, name, item, min, max, price, status, created_at FROM orders ORDER BY created_at")
}

// ListByItem returns the orders for one menu item, oldest first.
func (r *SQLiteRepository) ListByItem(ctx context.Context, item string) ([]models.Order, error) {
	return r.listWhere(ctx,
		"SELECT entry_id, name, item, min, max, price, status, created_at FROM orders WHERE item = ? ORDER BY created_at",
		item)
}

func (r *SQLiteRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.EntryID, &order.Name, &order.Item, &order.Min, &order.Max,
			&order.Price, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		if err := r.loadParticipants(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// AddParticipant inserts the user into the order's participant list.
// The conflict-ignoring insert makes a repeat join a no-op and keeps
// concurrent joins from losing each other.
func (r *SQLiteRepository) AddParticipant(ctx context.Context, entryID, user string) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM orders WHERE entry_id = ?", entryID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if exists == 0 {
		return ErrOrderNotFound
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO order_participants (entry_id, name, position)
		 SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM order_participants WHERE entry_id = ?
		 ON CONFLICT (entry_id, name) DO NOTHING`,
		entryID, user, entryID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// LatestCreatedAt returns the newest created_at, or empty when no orders
// exist.
func (r *SQLiteRepository) LatestCreatedAt(ctx context.Context) (string, error) {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT created_at FROM orders ORDER BY created_at DESC LIMIT 1",
	).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest created_at: %w", err)
	}
	return createdAt, nil
}

// Clear deletes every order. Participants go with them via the cascade.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM orders"); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) loadParticipants(ctx context.Context, order *models.Order) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM order_participants WHERE entry_id = ? ORDER BY position, name",
		order.EntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	order.Participants = nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		order.Participants = append(order.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	return nil
}
