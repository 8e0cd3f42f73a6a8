package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/service"
	"github.com/jonnyb/group-order/internal/session"
)

// MenuHandler handles menu and share-configuration requests.
type MenuHandler struct {
	orderService *service.OrderService
	sessions     *session.Manager
	log          *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(orderService *service.OrderService, sessions *session.Manager, log *slog.Logger) *MenuHandler {
	return &MenuHandler{
		orderService: orderService,
		sessions:     sessions,
		log:          log,
	}
}

// GetMenu handles GET /api/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orderService.Menu(), h.log)
}

// OpenShare handles POST /api/menu/{item}/share. Marks the item's share
// configuration as open for this session; nothing is persisted.
func (h *MenuHandler) OpenShare(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	item := chi.URLParam(r, "item")

	if err := h.orderService.OpenShare(user, item); err != nil {
		if errors.Is(err, service.ErrUnknownItem) {
			WriteError(w, http.StatusNotFound, "Item not found", h.log)
			return
		}
		h.log.Error("failed to open share configuration", "user", user, "item", item, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.writeShareState(w, user)
}

// CancelShare handles DELETE /api/menu/{item}/share. Clears the flag
// without creating an order.
func (h *MenuHandler) CancelShare(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	item := chi.URLParam(r, "item")

	h.orderService.CancelShare(user, item)
	h.writeShareState(w, user)
}

// GetShareState handles GET /api/menu/share. Reports which items have an
// open share configuration for this session.
func (h *MenuHandler) GetShareState(w http.ResponseWriter, r *http.Request) {
	h.writeShareState(w, middleware.GetUser(r.Context()))
}

func (h *MenuHandler) writeShareState(w http.ResponseWriter, user string) {
	WriteJSON(w, http.StatusOK, models.ShareStateResponse{
		Open: h.sessions.OpenShares(user),
	}, h.log)
}
