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

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/config"
	"github.com/azursoldev/likes-io/internal/coupon"
	"github.com/azursoldev/likes-io/internal/httpx"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/payments"
	"github.com/azursoldev/likes-io/internal/postgres"
	"github.com/azursoldev/likes-io/internal/redisx"
	"github.com/azursoldev/likes-io/internal/social"
	"github.com/azursoldev/likes-io/internal/upsell"
	"github.com/azursoldev/likes-io/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pPaid := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPaid, 1024)
	pPaid.Start(ctx)

	// Repos & services
	orderRepo := &orders.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	resolver := &catalog.Resolver{Repo: catalogRepo, Redis: rdb}
	couponRepo := &coupon.Repo{DB: db}
	couponSvc := &coupon.Service{Store: couponRepo}
	upsellRepo := &upsell.Repo{DB: db}
	walletRepo := &wallet.Repo{DB: db}

	paySvc := &payments.Service{
		DB:      db,
		Orders:  orderRepo,
		Catalog: resolver,
		Coupons: couponSvc,
		Upsells: upsellRepo,
		Gateways: map[payments.Method]payments.Gateway{
			payments.MethodCard:     payments.NewCardGateway(cfg.CardAPIBase, cfg.CardAPIKey),
			payments.MethodCrypto:   payments.NewCryptoGateway(cfg.CryptoAPIBase, cfg.CryptoAPIKey),
			payments.MethodRegional: payments.NewRegionalGateway(cfg.RegionalAPIBase, cfg.RegionalAPIKey),
			payments.MethodWallet: &payments.WalletGateway{
				DB: db, Wallet: walletRepo, Orders: orderRepo, Coupons: couponSvc,
			},
		},
		Secrets: map[payments.Method]string{
			payments.MethodCard:     cfg.CardWebhookSecret,
			payments.MethodCrypto:   cfg.CryptoAPIKey,
			payments.MethodRegional: cfg.RegionalAPIKey,
		},
		Redis:           rdb,
		ProducerCreated: pCreated,
		ProducerPaid:    pPaid,
		ServiceName:     cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Resolver: resolver, Repo: catalogRepo}).Register(router)
	(&httpx.SocialHandler{Client: social.NewClient(cfg.SocialAPIBase)}).Register(router)
	(&httpx.CouponHandler{Service: couponSvc, Repo: couponRepo}).Register(router)
	(&httpx.UpsellHandler{Repo: upsellRepo}).Register(router)
	(&httpx.PaymentsHandler{Service: paySvc, Wallet: walletRepo}).Register(router)
	(&httpx.OrdersHandler{Repo: orderRepo, Redis: rdb}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close()
	pPaid.Close()
	cancel()
	pCreated.WaitClosed()
	pPaid.WaitClosed()
}
