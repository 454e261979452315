package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/premierlux/premierlux-backend/internal/ai"
	"github.com/premierlux/premierlux-backend/internal/analytics"
	"github.com/premierlux/premierlux-backend/internal/auth"
	"github.com/premierlux/premierlux-backend/internal/auth/jwt"
	"github.com/premierlux/premierlux-backend/internal/inventory/events"
	invhandler "github.com/premierlux/premierlux-backend/internal/inventory/handler"
	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	invservice "github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/internal/migrations"
	"github.com/premierlux/premierlux-backend/internal/user"
	userrepo "github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/config"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("api", cfg.Server.Environment)
	log.Info().Msg("starting PremierLux API")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema bootstrap
	if err := migrations.Run(ctx, db.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to RabbitMQ. The API stays functional without the broker, so a
	// failed connection downgrades event publishing instead of aborting.
	var publisher *messaging.Publisher
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, event publishing disabled")
	} else {
		defer rmq.Close()
		for _, exchange := range []string{
			messaging.ExchangeInventory,
			messaging.ExchangeAnalytics,
			messaging.ExchangeSystem,
		} {
			if err := rmq.DeclareExchange(exchange); err != nil {
				log.Fatal().Err(err).Str("exchange", exchange).Msg("failed to declare exchange")
			}
		}
		publisher = messaging.NewPublisher(rmq, log)
	}

	// Repositories
	itemRepo := invrepo.NewItemRepository(db)
	batchRepo := invrepo.NewBatchRepository(db, itemRepo)
	orderRepo := invrepo.NewOrderRepository(db)
	supplierRepo := invrepo.NewSupplierRepository(db)
	branchRepo := invrepo.NewBranchRepository(db)
	consumptionRepo := invrepo.NewConsumptionRepository(db)
	ackRepo := invrepo.NewAcknowledgementRepository(db)
	userRepo := userrepo.NewUserRepository(db)
	settingsRepo := userrepo.NewSettingsRepository(db)
	auditRepo := userrepo.NewAuditRepository(db)
	analyticsRepo := analytics.NewRepository(db)
	dashboardRepo := ai.NewDashboardRepository(db)

	// Services
	tokens := jwt.NewManager(&cfg.JWT)
	authService := auth.NewService(userRepo, settingsRepo, auditRepo, tokens, log)

	inventoryService := invservice.NewInventoryService(invservice.Deps{
		Items:       itemRepo,
		Batches:     batchRepo,
		Orders:      orderRepo,
		Suppliers:   supplierRepo,
		Branches:    branchRepo,
		Consumption: consumptionRepo,
		Acks:        ackRepo,
		Publisher:   events.NewPublisher(publisher, log),
		Logger:      log,
		AckPolicy:   cfg.Alerts.AckPolicy,
	})

	userService := user.NewService(user.Deps{
		Users:     userRepo,
		Settings:  settingsRepo,
		Audit:     auditRepo,
		Items:     itemRepo,
		Batches:   batchRepo,
		Suppliers: supplierRepo,
		Acks:      ackRepo,
		Publisher: publisher,
		Logger:    log,
	})

	analyticsService := analytics.NewService(analyticsRepo, consumptionRepo, log)

	aiClient := ai.NewClient(&cfg.LLM)
	aiService := ai.NewService(aiClient, itemRepo, dashboardRepo, &cfg.LLM, log)

	// Seed the default owner account on an empty installation
	if err := authService.SeedOwner(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed owner account")
	}

	// Snapshot broadcaster
	hub := analytics.NewHub()
	sinks := []analytics.Sink{analytics.NewHubSink(hub)}
	if publisher != nil {
		sinks = append(sinks, analytics.NewEventSink(publisher))
	}
	broadcaster := analytics.NewBroadcaster(analyticsService, cfg.Alerts.BroadcastInterval, log, sinks...)
	go broadcaster.Run(ctx)

	// Handlers
	authHandler := auth.NewHandler(authService, log)
	itemHandler := invhandler.NewItemHandler(inventoryService, log)
	batchHandler := invhandler.NewBatchHandler(inventoryService, log)
	orderHandler := invhandler.NewOrderHandler(inventoryService, log)
	supplierHandler := invhandler.NewSupplierHandler(inventoryService, log)
	branchHandler := invhandler.NewBranchHandler(inventoryService, log)
	alertHandler := invhandler.NewAlertHandler(inventoryService, log)
	insightsHandler := invhandler.NewInsightsHandler(inventoryService, log)
	userHandler := user.NewHandler(userService, log)
	analyticsHandler := analytics.NewHandler(analyticsService, hub, log)
	aiHandler := ai.NewHandler(aiService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "premierlux-api",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", authHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", itemHandler.List)
				r.Post("/", itemHandler.Create)
				r.Get("/{id}", itemHandler.Get)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
				r.Post("/{id}/adjust", itemHandler.Adjust)
			})

			r.Route("/batches", func(r chi.Router) {
				r.Get("/", batchHandler.List)
				r.Post("/", batchHandler.Receive)
				r.Get("/{id}", batchHandler.Get)
				r.Delete("/{id}", batchHandler.Delete)
				r.Get("/scan/{code}", batchHandler.Scan)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Create)
				r.Put("/{id}/status", orderHandler.UpdateStatus)
				r.Delete("/{id}", orderHandler.Delete)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", supplierHandler.List)
				r.Post("/", supplierHandler.Create)
				r.Put("/{id}", supplierHandler.Update)
				r.Delete("/{id}", supplierHandler.Delete)
			})

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", branchHandler.List)
				r.Post("/", branchHandler.Create)
				r.Put("/{id}", branchHandler.Update)
				r.Delete("/{id}", branchHandler.Delete)
			})

			r.Get("/alerts", alertHandler.List)
			r.Post("/alerts/{id}/acknowledge", alertHandler.Acknowledge)

			r.Get("/replenishment/recommendations", insightsHandler.Recommendations)
			r.Get("/forecast/{name}", insightsHandler.Forecast)
			r.Get("/compliance/overview", insightsHandler.Compliance)
			r.Get("/compliance/audit-logs", insightsHandler.Movements)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", analyticsHandler.Overview)
				r.Get("/movement", analyticsHandler.Movement)
				r.Get("/movement-monthly", analyticsHandler.MovementMonthly)
				r.Get("/category", analyticsHandler.Category)
				r.Get("/low-stock", analyticsHandler.LowStock)
				r.Get("/top-products", analyticsHandler.TopProducts)
				r.Get("/branch-stock", analyticsHandler.BranchStock)
				r.Get("/snapshot", analyticsHandler.Snapshot)
			})

			r.Post("/chat", aiHandler.Chat)
			r.Route("/ai", func(r chi.Router) {
				r.Get("/analyze", aiHandler.Analyze)
				r.Get("/market-intelligence", aiHandler.MarketIntelligence)
				r.Get("/dashboard", aiHandler.Dashboard)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(auth.RequireManagement)
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
			r.With(auth.RequireManagement).Get("/audit-logs", userHandler.AuditLogs)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireOwner)
				r.Get("/settings", userHandler.Settings)
				r.Post("/lockdown", userHandler.Lockdown)
				r.Delete("/clear-logs", userHandler.ClearLogs)
				r.Get("/backup", userHandler.Backup)
				r.Post("/broadcast", userHandler.Broadcast)
				r.Post("/kill-sessions", userHandler.KillSessions)
			})
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the broadcaster
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
