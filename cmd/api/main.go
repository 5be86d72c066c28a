package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/address"
	"github.com/auroragems/go-jewel-orders/internal/cart"
	"github.com/auroragems/go-jewel-orders/internal/catalog"
	"github.com/auroragems/go-jewel-orders/internal/checkout"
	"github.com/auroragems/go-jewel-orders/internal/config"
	"github.com/auroragems/go-jewel-orders/internal/httpx"
	kafkax "github.com/auroragems/go-jewel-orders/internal/kafka"
	"github.com/auroragems/go-jewel-orders/internal/logx"
	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
	"github.com/auroragems/go-jewel-orders/internal/postgres"
	"github.com/auroragems/go-jewel-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logx.New(cfg.Env, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (topic per message, satu writer untuk semua event order)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, logger)
	prod.Start(ctx)

	// Gateway + workflow
	gw := payment.NewHostedGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey,
		cfg.GatewaySigningSecret, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)

	orderRepo := &orders.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	addrRepo := &address.Repo{DB: db}
	productRepo := &catalog.Repo{DB: db}

	wf := &checkout.Service{
		Carts:          cartRepo,
		Addresses:      addrRepo,
		Orders:         orderRepo,
		Gateway:        gw,
		Producer:       prod,
		Redis:          rdb,
		Log:            logger,
		ServiceName:    cfg.ServiceName,
		TaxBasisPoints: cfg.TaxBasisPoints,
		ShippingCents:  cfg.ShippingCents,
	}

	router := httpx.NewRouter()
	(&httpx.CartHandler{Carts: cartRepo, Products: productRepo}).Register(router)
	(&httpx.AddressHandler{Addresses: addrRepo}).Register(router)
	(&httpx.OrdersHandler{Workflow: wf, Orders: orderRepo, Log: logger}).Register(router)
	(&httpx.WebhookHandler{Workflow: wf, Log: logger}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
	cancel()
}
