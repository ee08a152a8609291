package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-orders/internal/carriers"
	"storefront-orders/internal/config"
	"storefront-orders/internal/db"
	"storefront-orders/internal/httpserver"
	orderrepo "storefront-orders/internal/repository/order"
	trackingrepo "storefront-orders/internal/repository/tracking"
	checkoutsvc "storefront-orders/internal/service/checkout"
	fulfillmentsvc "storefront-orders/internal/service/fulfillment"
	ordersvc "storefront-orders/internal/service/order"
	trackingsvc "storefront-orders/internal/service/tracking"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	rates := carriers.Default()
	if cfg.CarrierRatesPath != "" {
		rates, err = carriers.Load(cfg.CarrierRatesPath)
		if err != nil {
			logger.Fatalf("load carrier rates: %v", err)
		}
	}

	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	trackingRepo := trackingrepo.NewPostgres(dbpool, logger)

	sessions := checkoutsvc.NewStripeSessions(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	checkoutService := checkoutsvc.New(orderRepo, sessions, cfg.TaxRate, cfg.ShippingFeeCents, logger)
	orderService := ordersvc.New(orderRepo, trackingRepo, logger)
	fulfillmentService := fulfillmentsvc.New(orderRepo, trackingRepo, rates, nil, logger)
	trackingService := trackingsvc.New(orderRepo, trackingRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CheckoutSvc:         checkoutService,
		OrderSvc:            orderService,
		FulfillmentSvc:      fulfillmentService,
		TrackingSvc:         trackingService,
		Rates:               rates,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		AdminToken:          cfg.AdminToken,
		AllowedOrigins:      cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
