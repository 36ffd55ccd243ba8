package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/fulfillment"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := loggo.ConfigureLoggers("<root>=" + cfg.LogLevel); err != nil {
		log.Printf("log level %q: %v", cfg.LogLevel, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb, err := redisx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()

	sessions := session.NewManager(session.RedisRepositories{Client: rdb, TTL: cfg.SessionTTL}, clock.WallClock)

	// Kafka
	var (
		publisher checkout.Publisher
		prod      *kafkax.Producer
		bg        sync.WaitGroup
	)
	if cfg.KafkaEnabled {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
		prod.Start(ctx)
		publisher = prod

		fs := &fulfillment.Service{Sessions: sessions, Redis: rdb, ServiceName: cfg.ServiceName}
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FulfillmentGroup, orders.TopicOrderStatus, cfg.FulfillmentWorkers)
		bg.Add(1)
		go func() {
			defer bg.Done()
			if err := cons.Start(ctx, fs.HandleStatusChanged); err != nil {
				log.Printf("fulfillment consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("kafka disabled, orders are not announced")
	}

	// session janitor
	bg.Add(1)
	go func() {
		defer bg.Done()
		t := time.NewTicker(cfg.SessionIdle/2 + time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := sessions.Sweep(cfg.SessionIdle); n > 0 {
					log.Printf("dropped %d idle sessions, %d live", n, sessions.Len())
				}
			}
		}
	}()

	// handlers
	router := httpx.NewRouter()
	(&httpx.CatalogHandler{
		Source: catalog.NewBreaker(&catalog.Repo{DB: db}, catalog.DefaultBreakerSettings()),
	}).Register(router)
	router.Group(func(r chi.Router) {
		r.Use(httpx.WithSession(sessions, cfg.SessionTTL))
		(&httpx.StorefrontHandler{
			Checkout: checkout.NewService(clock.WallClock, cfg.CheckoutDelay, publisher, cfg.ServiceName),
		}).Register(r)
	})

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

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
	if prod != nil {
		prod.Close() // flush what checkout already queued
	}
	cancel()
	bg.Wait()
	if prod != nil {
		prod.WaitClosed()
	}
}
