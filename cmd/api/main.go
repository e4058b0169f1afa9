package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mkj2903/finalshowmo/internal/config"
	"github.com/mkj2903/finalshowmo/internal/modules/auth"
	"github.com/mkj2903/finalshowmo/internal/modules/catalog"
	"github.com/mkj2903/finalshowmo/internal/modules/coupon"
	"github.com/mkj2903/finalshowmo/internal/modules/dashboard"
	"github.com/mkj2903/finalshowmo/internal/modules/inventory"
	"github.com/mkj2903/finalshowmo/internal/modules/order"
	"github.com/mkj2903/finalshowmo/internal/modules/payment"
	"github.com/mkj2903/finalshowmo/internal/modules/pricing"
	"github.com/mkj2903/finalshowmo/internal/modules/user"
	"github.com/mkj2903/finalshowmo/internal/platform/cache"
	"github.com/mkj2903/finalshowmo/internal/platform/database"
	"github.com/mkj2903/finalshowmo/internal/platform/events"
	"github.com/mkj2903/finalshowmo/internal/platform/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ─────────────────────────────────────────────
	db, err := database.OpenPostgres(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to postgres")

	mongoClient, mongoDB, err := database.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	if err := coupon.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	rdb, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, logger)
		if err != nil {
			return err
		}
		publisher = kp
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	defer publisher.Close()

	txm := database.NewTxManager(db)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, logger)
	if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}
	authService := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)

	// ── Catalog & Inventory ─────────────────────────────────
	productRepo := catalog.NewCachedRepository(catalog.NewPostgresRepository(db), rdb, cfg.CatalogCacheTTL, logger)
	catalogService := catalog.NewService(productRepo, logger)

	stockLedger := inventory.NewPostgresLedger(db)
	inventoryService := inventory.NewService(stockLedger, productRepo, cfg.LowStockThreshold, logger)

	// ── Coupons ─────────────────────────────────────────────
	couponService := coupon.NewService(coupon.NewMongoRepository(mongoDB), coupon.Policy{
		EnforcePerUserLimit: cfg.Coupons.EnforcePerUserLimit,
		EnforceCategories:   cfg.Coupons.EnforceCategories,
	}, publisher, logger)

	// ── Orders & Payments ───────────────────────────────────
	reviewRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(reviewRepo, cfg.UPI.VPA, cfg.UPI.PayeeName)

	orderService := order.NewService(order.Deps{
		Repo:      order.NewPostgresRepository(db),
		Tx:        txm,
		Products:  catalogService,
		Coupons:   couponService,
		Stock:     stockLedger,
		Reviews:   reviewRepo,
		Evictor:   productRepo,
		Publisher: publisher,
		Shipping: pricing.Policy{
			FreeShippingThreshold: cfg.Shipping.FreeThreshold,
			ShippingFee:           cfg.Shipping.Fee,
		},
		Logger: logger,
	})

	dashboardService := dashboard.NewService(catalogService, inventoryService, userService, orderService)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimw.Recoverer)

	catalogHandler := catalog.NewHandler(catalogService, logger)
	couponHandler := coupon.NewHandler(couponService, logger)
	orderHandler := order.NewHandler(orderService, logger)
	paymentHandler := payment.NewHandler(paymentService, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"status":"ok"}`))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rdb, cfg.Limits.Requests, cfg.Limits.Window, logger))
			catalogHandler.RegisterRoutes(r)
			couponHandler.RegisterRoutes(r)
			orderHandler.RegisterRoutes(r)
			paymentHandler.RegisterRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(rdb, cfg.Limits.Requests, cfg.Limits.Window, logger)).
				Group(auth.NewHandler(authService, logger).RegisterAdminRoutes)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(authService))
				user.NewHandler(userService, logger).RegisterAdminRoutes(r)
				catalogHandler.RegisterAdminRoutes(r)
				inventory.NewHandler(inventoryService, logger).RegisterAdminRoutes(r)
				couponHandler.RegisterAdminRoutes(r)
				orderHandler.RegisterAdminRoutes(r)
				paymentHandler.RegisterAdminRoutes(r)
				dashboard.NewHandler(dashboardService, logger).RegisterAdminRoutes(r)
			})
		})
	})

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
