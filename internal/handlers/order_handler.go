package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/repository"
	"github.com/jonnyb/group-order/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/orders. Creates a solo order, or a
// shared one with the chosen participant range when shared is set.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	var (
		order *models.Order
		err   error
	)
	if req.Shared {
		order, err = h.orderService.CreateShared(r.Context(), user, req.Item, req.Min, req.Max)
	} else {
		order, err = h.orderService.CreateSolo(r.Context(), user, req.Item)
	}
	if err != nil {
		h.log.Error("failed to create order", "user", user, "item", req.Item, "error", err)

		switch {
		case errors.Is(err, service.ErrUnknownItem):
			WriteError(w, http.StatusBadRequest, "Item is not on the menu", h.log)
		case errors.Is(err, service.ErrInvalidRange):
			WriteError(w, http.StatusBadRequest, "Participant range must satisfy 1 <= min <= max <= 10", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.log.Info("order created", "entry_id", order.EntryID, "user", user, "status", order.Status)
	WriteJSON(w, http.StatusCreated, toView(*order), h.log)
}

// JoinOrder handles POST /api/orders/{entryID}/join
func (h *OrderHandler) JoinOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryID")

	order, err := h.orderService.Join(r.Context(), user, entryID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			h.log.Info("join rejected, order not found", "entry_id", entryID, "user", user)
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
		case errors.Is(err, service.ErrOrderFull):
			h.log.Info("join rejected, order full", "entry_id", entryID, "user", user)
			WriteError(w, http.StatusConflict, "Order has no slots left", h.log)
		default:
			h.log.Error("failed to join order", "entry_id", entryID, "user", user, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.log.Info("participant joined", "entry_id", entryID, "user", user, "participants", len(order.Participants))
	WriteJSON(w, http.StatusOK, toView(*order), h.log)
}

// ListOrders handles GET /api/orders, optionally filtered with ?item=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")

	orders, err := h.orderService.ListOrders(r.Context(), item)
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toView(order))
	}

	WriteJSON(w, http.StatusOK, views, h.log)
}

func toView(order models.Order) models.OrderView {
	return models.OrderView{
		Order:     order,
		SlotsLeft: order.SlotsLeft(),
	}
}
