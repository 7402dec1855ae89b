package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/orda/orda-api/internal/config"
	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/domain/loyalty"
	"github.com/orda/orda-api/internal/domain/notification"
	"github.com/orda/orda-api/internal/domain/order"
	"github.com/orda/orda-api/internal/domain/reward"
	"github.com/orda/orda-api/internal/domain/voucher"
	"github.com/orda/orda-api/internal/middleware"
	"github.com/orda/orda-api/internal/pkg/cache"
	"github.com/orda/orda-api/internal/pkg/database"
	"github.com/orda/orda-api/internal/pkg/email"
	"github.com/orda/orda-api/internal/pkg/jwt"
	"github.com/orda/orda-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Orda API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	catalogCache := cache.New(redisClient)
	mailer := email.NewLogNotifier()
	policy := loyalty.NewPolicy(cfg.Loyalty)

	// ---------- Repositories ----------
	customerRepo := customer.NewRepository(db)
	ledgerRepo := loyalty.NewRepository(db)
	rewardRepo := reward.NewRepository(db)
	voucherRepo := voucher.NewRepository(db)
	orderRepo := order.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// ---------- Services ----------
	customerService := customer.NewService(customerRepo)
	notificationService := notification.NewService(notificationRepo)
	loyaltyService := loyalty.NewService(ledgerRepo, customerRepo, policy)
	rewardService := reward.NewService(rewardRepo, customerRepo, catalogCache, cfg.Loyalty)
	voucherService := voucher.NewService(
		db, voucherRepo, ledgerRepo, rewardService, rewardRepo,
		customerRepo, notificationService, mailer, cfg.Loyalty,
	)
	orderService := order.NewService(
		db, orderRepo, customerRepo, customerService,
		ledgerRepo, policy, notificationService, mailer,
	)

	// ---------- Handlers ----------
	customerHandler := customer.NewHandler(customerService, jwtService)
	loyaltyHandler := loyalty.NewHandler(loyaltyService)
	rewardHandler := reward.NewHandler(rewardService)
	voucherHandler := voucher.NewHandler(voucherService)
	orderHandler := order.NewHandler(orderService)
	notificationHandler := notification.NewHandler(notificationService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", customerHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/customers/me", customerHandler.Me)

			r.Route("/loyalty", func(r chi.Router) {
				r.Get("/dashboard", loyaltyHandler.Dashboard)
				r.Get("/history", loyaltyHandler.History)
				r.Get("/rewards", rewardHandler.Catalog)
				r.Post("/rewards/redeem", voucherHandler.Redeem)
				r.Get("/vouchers", voucherHandler.ListMine)
			})

			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())

		r.Mount("/loyalty", loyaltyHandler.AdminRoutes())
		r.Mount("/rewards", rewardHandler.AdminRoutes())
		r.Mount("/vouchers", voucherHandler.AdminRoutes())
		r.Mount("/orders", orderHandler.AdminRoutes())
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
