package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonnyb/group-order/internal/auth"
	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/models"
	"github.com/jonnyb/group-order/internal/repository"
	"github.com/jonnyb/group-order/internal/service"
	"github.com/jonnyb/group-order/internal/session"
	"github.com/jonnyb/group-order/pkg/logger"
)

var testUsers = map[string]string{
	"Abbie":   "1111",
	"Michael": "2222",
	"Sam":     "3333",
	"Jonny":   "4444",
}

var testMenu = []models.MenuItem{
	{Name: "Spring Rolls", Price: 4.0, Type: "starter"},
	{Name: "Noodles", Price: 10.0, Type: "main"},
}

// testEnv wires the full handler stack against a temp SQLite store.
type testEnv struct {
	router     *chi.Mux
	jwtManager *auth.JWTManager
	sessions   *session.Manager
	service    *service.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	log := logger.New("error")
	sessions := session.NewManager(10 * time.Second)
	orderService := service.NewOrderService(repo, testMenu, sessions)

	creds := auth.NewCredentials(testUsers)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	authHandler := NewAuthHandler(creds, jwtManager, sessions, log)
	menuHandler := NewMenuHandler(orderService, sessions, log)
	orderHandler := NewOrderHandler(orderService, log)
	basketHandler := NewBasketHandler(orderService, sessions, log)
	adminHandler := NewAdminHandler(orderService, log)

	r := chi.NewRouter()
	r.Get("/api/users", authHandler.ListUsers)
	r.Post("/api/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))
		r.Post("/api/logout", authHandler.Logout)
		r.Get("/api/menu", menuHandler.GetMenu)
		r.Get("/api/menu/share", menuHandler.GetShareState)
		r.Post("/api/menu/{item}/share", menuHandler.OpenShare)
		r.Delete("/api/menu/{item}/share", menuHandler.CancelShare)
		r.Get("/api/orders", orderHandler.ListOrders)
		r.Post("/api/orders", orderHandler.CreateOrder)
		r.Post("/api/orders/{entryID}/join", orderHandler.JoinOrder)
		r.Get("/api/basket", basketHandler.GetBasket)
		r.Get("/api/updates", basketHandler.GetUpdates)
		r.Delete("/api/orders", adminHandler.ClearOrders)
	})

	return &testEnv{
		router:     r,
		jwtManager: jwtManager,
		sessions:   sessions,
		service:    orderService,
	}
}

// login performs a real login and returns the session token.
func (e *testEnv) login(t *testing.T, user string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/login", "", models.LoginRequest{
		Name: user,
		Code: testUsers[user],
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed for %s: status %d, body %s", user, w.Code, w.Body.String())
	}

	var resp models.LoginResponse
	decodeBody(t, w.Body, &resp)
	return resp.Token
}

// do executes a request against the test router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if str, ok := body.(string); ok {
			reader = bytes.NewReader([]byte(str))
		} else {
			data, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("failed to marshal request body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
