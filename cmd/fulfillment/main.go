package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/config"
	"github.com/azursoldev/likes-io/internal/fulfillment"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/postgres"
	"github.com/azursoldev/likes-io/internal/redisx"
	"github.com/azursoldev/likes-io/internal/smmpanel"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producers: submitted & failed
	pOK := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderSubmitted, 1024)
	pOK.Start(ctx)
	pFail := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderFailed, 1024)
	pFail.Start(ctx)

	// Service
	orderRepo := &orders.Repo{DB: db}
	svc := &fulfillment.Service{
		Orders:       orderRepo,
		Catalog:      &catalog.Resolver{Repo: &catalog.Repo{DB: db}, Redis: rdb},
		Dedup:        &redisx.Dedup{R: rdb},
		Panel:        smmpanel.NewClient(cfg.PanelAPIBase, cfg.PanelAPIKey),
		ProducerOK:   pOK,
		ProducerFail: pFail,
		ServiceName:  cfg.ServiceName + "-fulfillment",
	}

	// Consumer
	group := getenv("FULFILLMENT_GROUP", "fulfillment-svc")
	workers := mustAtoi(os.Getenv("FULFILLMENT_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPaid, workers)

	go func() {
		log.Printf("fulfillment consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderPaid, workers)
		if err := cons.Start(ctx, svc.HandleOrderPaid); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	pOK.WaitClosed()
	pFail.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
