// Package repository provides persistence for order entries.
package repository

import (
	"context"
	"errors"

	"github.com/jonnyb/group-order/internal/models"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateEntry = errors.New("duplicate entry id")
)

// OrderRepository defines the interface for order data access.
// Operations are not transactional across each other; each call is a
// single round trip to the store.
type OrderRepository interface {
	// Create inserts a new order with its participant list initialized
	// to the owner. Fails on duplicate entry ID.
	Create(ctx context.Context, order *models.Order) error

	// Get returns the order with the given entry ID.
	Get(ctx context.Context, entryID string) (*models.Order, error)

	// List returns all live orders.
	List(ctx context.Context) ([]models.Order, error)

	// ListByItem returns the orders for one menu item.
	ListByItem(ctx context.Context, item string) ([]models.Order, error)

	// AddParticipant appends a user to an order's participant list.
	// Adding a user twice is a no-op at the store level: membership is
	// enforced by a uniqueness constraint, so concurrent joins cannot
	// lose each other.
	AddParticipant(ctx context.Context, entryID, user string) error

	// LatestCreatedAt returns the newest created_at across all orders,
	// or empty when there are none. Used for change detection.
	LatestCreatedAt(ctx context.Context) (string, error)

	// Clear deletes every order unconditionally. Irreversible.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
