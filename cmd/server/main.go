package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonnyb/group-order/internal/auth"
	"github.com/jonnyb/group-order/internal/config"
	"github.com/jonnyb/group-order/internal/handlers"
	"github.com/jonnyb/group-order/internal/menu"
	"github.com/jonnyb/group-order/internal/middleware"
	"github.com/jonnyb/group-order/internal/repository"
	"github.com/jonnyb/group-order/internal/service"
	"github.com/jonnyb/group-order/internal/session"
	"github.com/jonnyb/group-order/pkg/logger"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting group order server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Load the menu definition, backfilling missing item types.
	menuItems, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		log.Error("failed to load menu", "path", cfg.Menu.Path, "error", err)
		os.Exit(1)
	}
	log.Info("menu loaded", "path", cfg.Menu.Path, "items", len(menuItems))

	// Initialize the order store
	repo, err := repository.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		log.Error("failed to initialize order store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	log.Info("order store ready", "path", cfg.Store.DBPath)

	// Initialize sessions and services
	sessions := session.NewManager(time.Duration(cfg.Refresh.IntervalSeconds) * time.Second)
	orderService := service.NewOrderService(repo, menuItems, sessions)

	creds := auth.NewCredentials(cfg.Auth.Users)
	jwtManager := auth.NewJWTManager(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	authHandler := handlers.NewAuthHandler(creds, jwtManager, sessions, log)
	menuHandler := handlers.NewMenuHandler(orderService, sessions, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	basketHandler := handlers.NewBasketHandler(orderService, sessions, log)
	adminHandler := handlers.NewAdminHandler(orderService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", authHandler.ListUsers)
		r.Post("/login", authHandler.Login)

		// Everything else needs a session token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Post("/logout", authHandler.Logout)

			r.Get("/menu", menuHandler.GetMenu)
			r.Get("/menu/share", menuHandler.GetShareState)
			r.Post("/menu/{item}/share", menuHandler.OpenShare)
			r.Delete("/menu/{item}/share", menuHandler.CancelShare)

			r.Get("/orders", orderHandler.ListOrders)
			r.Post("/orders", orderHandler.CreateOrder)
			r.Post("/orders/{entryID}/join", orderHandler.JoinOrder)
			r.Delete("/orders", adminHandler.ClearOrders)

			r.Get("/basket", basketHandler.GetBasket)
			r.Get("/updates", basketHandler.GetUpdates)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
