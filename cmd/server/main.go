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

	"github.com/craftline/craftline-backend/internal/assist"
	assisthandler "github.com/craftline/craftline-backend/internal/assist/handler"
	"github.com/craftline/craftline-backend/internal/auth"
	authhandler "github.com/craftline/craftline-backend/internal/auth/handler"
	"github.com/craftline/craftline-backend/internal/auth/session"
	catalogevents "github.com/craftline/craftline-backend/internal/catalog/events"
	cataloghandler "github.com/craftline/craftline-backend/internal/catalog/handler"
	catalogrepo "github.com/craftline/craftline-backend/internal/catalog/repository"
	flagevents "github.com/craftline/craftline-backend/internal/flags/events"
	flaghandler "github.com/craftline/craftline-backend/internal/flags/handler"
	flagrepo "github.com/craftline/craftline-backend/internal/flags/repository"
	flagservice "github.com/craftline/craftline-backend/internal/flags/service"
	logisticsevents "github.com/craftline/craftline-backend/internal/logistics/events"
	logisticshandler "github.com/craftline/craftline-backend/internal/logistics/handler"
	logisticsrepo "github.com/craftline/craftline-backend/internal/logistics/repository"
	productionevents "github.com/craftline/craftline-backend/internal/production/events"
	productionhandler "github.com/craftline/craftline-backend/internal/production/handler"
	productionrepo "github.com/craftline/craftline-backend/internal/production/repository"
	userhandler "github.com/craftline/craftline-backend/internal/users/handler"
	userrepo "github.com/craftline/craftline-backend/internal/users/repository"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/database"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("craftline-api", cfg.Server.Environment)
	log.Info().Msg("starting Craftline API")

	// Open the store. A missing or unreachable database is not fatal:
	// the server serves empty reads and rejects writes with
	// STORE_UNAVAILABLE until the store comes back.
	db := database.Open(&cfg.Database, log)
	defer db.Close()

	// Connect to RabbitMQ. Also non-fatal: without a broker the event
	// publishers stay nil and publishing becomes a no-op.
	var (
		flagPublisher       *flagevents.FlagEventPublisher
		catalogPublisher    *catalogevents.CatalogEventPublisher
		productionPublisher *productionevents.ProductionEventPublisher
		logisticsPublisher  *logisticsevents.LogisticsEventPublisher
	)
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("running without event broker")
	} else {
		defer rmq.Close()

		if flagPublisher, err = flagevents.NewFlagEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create flag event publisher")
		}
		if catalogPublisher, err = catalogevents.NewCatalogEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create catalog event publisher")
		}
		if productionPublisher, err = productionevents.NewProductionEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create production event publisher")
		}
		if logisticsPublisher, err = logisticsevents.NewLogisticsEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create logistics event publisher")
		}
	}

	// Initialize repositories
	users := userrepo.NewUserRepository(db, cfg.Owner.OpenID)
	suppliers := catalogrepo.NewSupplierRepository(db)
	materials := catalogrepo.NewMaterialRepository(db)
	recipes := productionrepo.NewRecipeRepository(db)
	ingredients := productionrepo.NewIngredientRepository(db)
	batches := productionrepo.NewBatchRepository(db)
	purchaseOrders := logisticsrepo.NewPurchaseOrderRepository(db)
	transactions := logisticsrepo.NewTransactionRepository(db)
	locations := logisticsrepo.NewLocationRepository(db)
	shipments := logisticsrepo.NewShipmentRepository(db)
	orders := logisticsrepo.NewOrderRepository(db)
	flags := flagrepo.NewFlagRepository(db)

	// Sessions and auth
	sessions := session.NewManager(&cfg.Session)

	// Initialize handlers
	authHandler := authhandler.NewAuthHandler(users, sessions, log)
	userHandler := userhandler.NewUserHandler(users, log)
	supplierHandler := cataloghandler.NewSupplierHandler(suppliers, log)
	materialHandler := cataloghandler.NewMaterialHandler(materials, catalogPublisher, log)
	recipeHandler := productionhandler.NewRecipeHandler(recipes, ingredients, log)
	batchHandler := productionhandler.NewBatchHandler(batches, productionPublisher, log)
	purchaseOrderHandler := logisticshandler.NewPurchaseOrderHandler(purchaseOrders, logisticsPublisher, log)
	transactionHandler := logisticshandler.NewTransactionHandler(transactions, logisticsPublisher, log)
	locationHandler := logisticshandler.NewLocationHandler(locations, log)
	shipmentHandler := logisticshandler.NewShipmentHandler(shipments, logisticsPublisher, log)
	orderHandler := logisticshandler.NewOrderHandler(orders, logisticsPublisher, log)
	flagHandler := flaghandler.NewFlagHandler(flags, flagservice.NewGateService(flags), flagPublisher, log)
	assistHandler := assisthandler.NewAssistHandler(assist.NewContentClient(log), assist.NewReferralClient(log), log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session cookie -> request identity (tolerant; guards enforce)
	r.Use(auth.Middleware(sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "craftline-api",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes stay open: login creates the session, me and
		// logout behave sensibly without one.
		r.Post("/auth/session", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireAuth)

			r.Get("/users", userHandler.List)

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", supplierHandler.List)
				r.Post("/", supplierHandler.Create)
				r.Get("/{id}", supplierHandler.Get)
				r.Put("/{id}", supplierHandler.Update)
				r.Delete("/{id}", supplierHandler.Delete)
			})

			r.Route("/materials", func(r chi.Router) {
				r.Get("/", materialHandler.List)
				r.Post("/", materialHandler.Create)
				r.Get("/{id}", materialHandler.Get)
				r.Put("/{id}", materialHandler.Update)
				r.Delete("/{id}", materialHandler.Delete)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", recipeHandler.List)
				r.Post("/", recipeHandler.Create)
				r.Get("/{id}", recipeHandler.Get)
				r.Put("/{id}", recipeHandler.Update)
				r.Delete("/{id}", recipeHandler.Delete)
				r.Get("/{id}/ingredients", recipeHandler.GetIngredients)
				r.Post("/{id}/ingredients", recipeHandler.CreateIngredient)
				r.Put("/{id}/ingredients/{ingredientID}", recipeHandler.UpdateIngredient)
				r.Delete("/{id}/ingredients/{ingredientID}", recipeHandler.DeleteIngredient)
			})

			r.Route("/batches", func(r chi.Router) {
				r.Get("/", batchHandler.List)
				r.Post("/", batchHandler.Create)
				r.Get("/{id}", batchHandler.Get)
				r.Put("/{id}", batchHandler.Update)
				r.Delete("/{id}", batchHandler.Delete)
			})

			r.Route("/purchase-orders", func(r chi.Router) {
				r.Get("/", purchaseOrderHandler.List)
				r.Post("/", purchaseOrderHandler.Create)
				r.Get("/{id}", purchaseOrderHandler.Get)
				r.Put("/{id}", purchaseOrderHandler.Update)
				r.Get("/{id}/items", purchaseOrderHandler.GetItems)
				r.Post("/{id}/items", purchaseOrderHandler.CreateItem)
				r.Put("/{id}/items/{itemID}", purchaseOrderHandler.UpdateItem)
			})

			// Inventory ledger: append-only, no update or delete
			r.Route("/inventory-transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.List)
				r.Post("/", transactionHandler.Create)
				r.Get("/{id}", transactionHandler.Get)
			})

			r.Route("/warehouse-locations", func(r chi.Router) {
				r.Get("/", locationHandler.List)
				r.Post("/", locationHandler.Create)
				r.Get("/{id}", locationHandler.Get)
				r.Put("/{id}", locationHandler.Update)
			})

			r.Route("/shipments", func(r chi.Router) {
				r.Get("/", shipmentHandler.List)
				r.Post("/", shipmentHandler.Create)
				r.Get("/{id}", shipmentHandler.Get)
				r.Put("/{id}", shipmentHandler.Update)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Create)
				r.Get("/{id}", orderHandler.Get)
				r.Put("/{id}", orderHandler.Update)
				r.Get("/{id}/items", orderHandler.GetItems)
				r.Post("/{id}/items", orderHandler.CreateItem)
				r.Put("/{id}/items/{itemID}", orderHandler.UpdateItem)
			})

			// Feature flags: reads for everyone, mutations admin-only
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", flagHandler.List)
				r.Post("/", httputil.RequireAdmin("Only admins can create feature flags", flagHandler.Create))
				r.Get("/enabled/{key}", flagHandler.IsEnabled)
				r.Get("/{id}", flagHandler.Get)
				r.Put("/{id}", httputil.RequireAdmin("Only admins can update feature flags", flagHandler.Update))
				r.Post("/{id}/toggle", httputil.RequireAdmin("Only admins can toggle feature flags", flagHandler.Toggle))
				r.Delete("/{id}", httputil.RequireAdmin("Only admins can delete feature flags", flagHandler.Delete))
			})

			r.Post("/assist/generate", assistHandler.Generate)
			r.Post("/assist/referrals", assistHandler.TrackReferral)
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

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
