package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/config"
	"github.com/Jadline/MinoxidilKe-sub001/internal/httpx"
	kafkax "github.com/Jadline/MinoxidilKe-sub001/internal/kafka"
	"github.com/Jadline/MinoxidilKe-sub001/internal/mpesa"
	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/Jadline/MinoxidilKe-sub001/internal/postgres"
	"github.com/Jadline/MinoxidilKe-sub001/internal/redisx"
	"github.com/joho/godotenv"
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

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Daraja gateway
	daraja := mpesa.NewClient(cfg.DarajaBaseURL, cfg.DarajaConsumerKey, cfg.DarajaSecret,
		cfg.DarajaShortCode, cfg.DarajaPasskey, cfg.DarajaCallbackURL)

	// Repos & handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Repo:     &orders.Repo{DB: db},
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	oh.Register(router)

	ch := &httpx.CatalogHandler{Repo: &orders.CatalogRepo{DB: db}}
	ch.Register(router)

	ah := &httpx.AddressHandler{Repo: &orders.AddressRepo{DB: db}}
	ah.Register(router)

	ph := &httpx.PaymentsHandler{Gateway: daraja, Notes: &orders.Repo{DB: db}}
	ph.Register(router, httpx.RequireBearer(cfg.APIToken))

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
