package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jonnyb/group-order/internal/basket"
	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/service"
	"github.com/jonnyb/group-order/internal/session"
)

// BasketHandler serves the aggregated basket view and the poll endpoint.
type BasketHandler struct {
	orderService *service.OrderService
	sessions     *session.Manager
	log          *slog.Logger
}

// NewBasketHandler creates a new basket handler
func NewBasketHandler(orderService *service.OrderService, sessions *session.Manager, log *slog.Logger) *BasketHandler {
	return &BasketHandler{
		orderService: orderService,
		sessions:     sessions,
		log:          log,
	}
}

// GetBasket handles GET /api/basket. Returns every live order plus the
// grand total and per-person owed amounts.
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	orders, err := h.orderService.ListOrders(r.Context(), "")
	if err != nil {
		h.log.Error("failed to load basket", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	totals := basket.Aggregate(orders)

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toView(order))
	}

	WriteJSON(w, http.StatusOK, models.BasketResponse{
		Orders:     views,
		Total:      totals.GrandTotal,
		PerPerson:  totals.PerPerson,
		LastUpdate: h.sessions.LastUpdate(user),
	}, h.log)
}

// GetUpdates handles GET /api/updates, the refresh-gated change probe.
func (h *BasketHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	resp, err := h.orderService.CheckUpdates(r.Context(), user)
	if err != nil {
		// A transient store failure downgrades to a warning; the client
		// keeps its cached view and retries on the next tick.
		h.log.Warn("update check failed", "user", user, "error", err)
		WriteError(w, http.StatusServiceUnavailable, "Update check failed", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, resp, h.log)
}
