package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/config"
	kafkax "github.com/Jadline/MinoxidilKe-sub001/internal/kafka"
	"github.com/Jadline/MinoxidilKe-sub001/internal/mpesa"
	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/Jadline/MinoxidilKe-sub001/internal/payments"
	"github.com/Jadline/MinoxidilKe-sub001/internal/postgres"
	"github.com/Jadline/MinoxidilKe-sub001/internal/redisx"
	"github.com/joho/godotenv"
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

	// Producers: payment requested & failed (two topics)
	pOK := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentRequested, 1024)
	pOK.Start(ctx)
	pFail := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentFailed, 1024)
	pFail.Start(ctx)

	// Service
	svc := &payments.Service{
		Repo:  &orders.Repo{DB: db},
		Dedup: &payments.RedisDeduper{RDB: rdb},
		Redis: rdb,
		Gateway: mpesa.NewClient(cfg.DarajaBaseURL, cfg.DarajaConsumerKey, cfg.DarajaSecret,
			cfg.DarajaShortCode, cfg.DarajaPasskey, cfg.DarajaCallbackURL),
		ProducerOK:   pOK,
		ProducerFail: pFail,
		ServiceName:  cfg.ServiceName + "-payments",
	}

	// Consumer
	group := getenv("PAYMENTS_GROUP", "payments-svc")
	workers := mustAtoi(os.Getenv("PAYMENTS_WORKERS"), "8")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers)

	go func() {
		log.Printf("payments consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderCreated, workers)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
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
	pOK.Close()
	pFail.Close()
	pOK.WaitClosed()
	pFail.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
