package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonnyb/group-order/internal/menu"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/repository"
	"github.com/jonnyb/group-order/internal/session"
)

var (
	ErrUnknownItem  = errors.New("item is not on the menu")
	ErrInvalidRange = errors.New("participant range must satisfy 1 <= min <= max <= 10")
	ErrOrderFull    = errors.New("order has no slots left")
)

// maxShareRange bounds the participant range selector.
const maxShareRange = 10

// OrderService governs the order lifecycle: solo creation, share
// configuration, shared creation, and joining. Orders never transition
// after creation; the only mutation is appending a participant.
type OrderService struct {
	repo     repository.OrderRepository
	items    []models.MenuItem
	sessions *session.Manager
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, items []models.MenuItem, sessions *session.Manager) *OrderService {
	return &OrderService{
		repo:     repo,
		items:    items,
		sessions: sessions,
	}
}

// Menu returns the loaded menu definition.
func (s *OrderService) Menu() []models.MenuItem {
	return s.items
}

// CreateSolo creates an order for the owner alone: min = max = 1 and the
// owner as sole participant, for the lifetime of the order.
func (s *OrderService) CreateSolo(ctx context.Context, owner, item string) (*models.Order, error) {
	menuItem, ok := menu.Find(s.items, item)
	if !ok {
		return nil, ErrUnknownItem
	}

	order := &models.Order{
		EntryID:      generateEntryID(item),
		Name:         owner,
		Item:         item,
		Min:          1,
		Max:          1,
		Price:        menuItem.Price,
		Status:       models.StatusSolo,
		Participants: []string{owner},
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create solo order: %w", err)
	}

	return order, nil
}

// OpenShare marks the share configuration for an item as open. Session
// state only, nothing is persisted.
func (s *OrderService) OpenShare(user, item string) error {
	if _, ok := menu.Find(s.items, item); !ok {
		return ErrUnknownItem
	}
	s.sessions.OpenShare(user, item)
	return nil
}

// CancelShare clears the share configuration flag without persisting
// anything.
func (s *OrderService) CancelShare(user, item string) {
	s.sessions.CloseShare(user, item)
}

// CreateShared creates a shared order with the chosen participant range
// and clears the item's share configuration flag.
func (s *OrderService) CreateShared(ctx context.Context, owner, item string, min, max int) (*models.Order, error) {
	menuItem, ok := menu.Find(s.items, item)
	if !ok {
		return nil, ErrUnknownItem
	}
	if min < 1 || min > max || max > maxShareRange {
		return nil, ErrInvalidRange
	}

	order := &models.Order{
		EntryID:      generateEntryID(item),
		Name:         owner,
		Item:         item,
		Min:          min,
		Max:          max,
		Price:        menuItem.Price,
		Status:       models.StatusShared,
		Participants: []string{owner},
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create shared order: %w", err)
	}

	s.sessions.CloseShare(owner, item)

	return order, nil
}

// Join adds the user to an existing order. Joining an order the user is
// already in is a no-op. A full order is rejected before any store
// mutation; this is a soft guard, not a store constraint, so a concurrent
// join landing between the read and the insert can still take the last
// slot first.
func (s *OrderService) Join(ctx context.Context, user, entryID string) (*models.Order, error) {
	order, err := s.repo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if order.HasParticipant(user) {
		return order, nil
	}
	if order.SlotsLeft() <= 0 {
		return nil, ErrOrderFull
	}

	if err := s.repo.AddParticipant(ctx, entryID, user); err != nil {
		return nil, fmt.Errorf("failed to join order: %w", err)
	}

	return s.repo.Get(ctx, entryID)
}

// ListOrders returns all live orders, or only those for one item when
// item is non-empty.
func (s *OrderService) ListOrders(ctx context.Context, item string) ([]models.Order, error) {
	if item != "" {
		return s.repo.ListByItem(ctx, item)
	}
	return s.repo.List(ctx)
}

// ClearAll deletes every order and resets each session's last-seen
// update timestamp.
func (s *OrderService) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.sessions.ResetUpdates()
	return nil
}

// CheckUpdates is the refresh-gated change probe. At most once per
// refresh interval per session it reads the store's latest created_at and
// compares it with the session's last-seen value; in between it serves
// the cached value without touching the store.
func (s *OrderService) CheckUpdates(ctx context.Context, user string) (models.UpdatesResponse, error) {
	if !s.sessions.ShouldRefresh(user) {
		return models.UpdatesResponse{
			Refreshed:  false,
			LastUpdate: s.sessions.LastUpdate(user),
		}, nil
	}

	latest, err := s.repo.LatestCreatedAt(ctx)
	if err != nil {
		return models.UpdatesResponse{}, fmt.Errorf("failed to check for updates: %w", err)
	}

	return models.UpdatesResponse{
		Refreshed:  true,
		Changed:    s.sessions.RecordUpdate(user, latest),
		LastUpdate: latest,
	}, nil
}

// generateEntryID builds an order identifier from the item name and a
// random token, unique across processes.
func generateEntryID(item string) string {
	return fmt.Sprintf("%s_%s", item, uuid.New().String())
}
