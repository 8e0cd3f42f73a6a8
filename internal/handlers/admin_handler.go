package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/service"
)

// AdminHandler handles administrative operations.
type AdminHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orderService *service.OrderService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		log:          log,
	}
}

// ClearOrders handles DELETE /api/orders. Deletes every order
// unconditionally; there is no confirmation step beyond the client
// control that triggers it.
func (h *AdminHandler) ClearOrders(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	if err := h.orderService.ClearAll(r.Context()); err != nil {
		h.log.Error("failed to clear orders", "user", user, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.log.Info("all orders cleared", "user", user)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"}, h.log)
}
