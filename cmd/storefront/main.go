package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/config"
	"github.com/matst80/slask-storefront/pkg/fetch"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/query"
	"github.com/matst80/slask-storefront/pkg/server"
	"github.com/matst80/slask-storefront/pkg/store"
	"github.com/matst80/slask-storefront/pkg/urlsync"
)

type app struct {
	cfg      *config.Config
	conn     *amqp.Connection
	cache    *fetch.Cache
	sessions *server.SessionRegistry
	changes  *common.QueueHandler[messaging.CatalogChange]
}

// connectAmqp subscribes to catalog change events. Bursts of changes are
// folded into batched cache flushes by the queue handler.
func (a *app) connectAmqp(amqpUrl string) {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	if err := messaging.DefineTopic(ch, a.cfg.ChannelPrefix, messaging.CatalogChanged); err != nil {
		log.Fatalf("Failed to declare catalog change topic: %v", err)
	}

	a.changes = common.NewQueueHandler(func(items []messaging.CatalogChange) {
		log.Printf("Flushing result cache after %d catalog changes", len(items))
		if err := a.cache.Flush(context.Background()); err != nil {
			log.Printf("Failed to flush result cache: %v", err)
		}
	}, 256, 5*time.Second)

	err = messaging.ListenToTopic(ch, a.cfg.ChannelPrefix, messaging.CatalogChanged, func(d amqp.Delivery) error {
		var change messaging.CatalogChange
		if err := json.Unmarshal(d.Body, &change); err != nil {
			log.Printf("Failed to unmarshal catalog change: %v", err)
			return nil
		}
		a.changes.Add(change)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to listen for catalog changes: %v", err)
	}
	log.Printf("Listening for catalog changes")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cache := fetch.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDb)
	client := catalog.NewClient(cfg.CatalogUrl, catalog.ClientOptions{Timeout: cfg.CatalogTimeout})
	fetcher := fetch.NewFetcher(client, cache, fetch.FetcherOptions{TTL: cfg.CacheTtl})
	compiler := query.NewCompiler(query.CompilerOptions{MinQueryLength: cfg.MinQueryLength})
	sessions := server.NewSessionRegistry(
		store.StoreOptions{MaxPrice: cfg.MaxPrice},
		cfg.DebounceWindow,
		cfg.SessionIdle,
	)

	a := &app{cfg: cfg, cache: cache, sessions: sessions}
	if cfg.AmqpUrl != "" {
		a.connectAmqp(cfg.AmqpUrl)
	}

	ws := &server.WebServer{
		Compiler:       compiler,
		Fetcher:        fetcher,
		Sessions:       sessions,
		Cache:          cache,
		SyncOpts:       urlsync.SyncOptions{MaxPrice: cfg.MaxPrice},
		MinQueryLength: cfg.MinQueryLength,
	}
	if a.conn != nil {
		ws.Announce = func(change messaging.CatalogChange) error {
			return messaging.SendChange(a.conn, cfg.ChannelPrefix, messaging.CatalogChanged, change)
		}
	}

	mux := ws.Handler()
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}, common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
	})

	common.RunServerWithShutdown(httpServer, "storefront query engine", 15*time.Second, 5*time.Second,
		func(ctx context.Context) error {
			sessions.Close()
			if a.changes != nil {
				a.changes.Stop()
			}
			if a.conn != nil {
				a.conn.Close()
			}
			cache.Close()
			return nil
		},
	)
}
