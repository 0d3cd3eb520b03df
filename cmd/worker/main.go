package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"studentportal/internal/audit"
	"studentportal/internal/config"
	"studentportal/internal/debounce"
	"studentportal/internal/queue"
	"studentportal/internal/session"
)

// Worker consumes session audit events, coalesces bursts into summary log
// lines, and persists each event to Postgres when a database is configured.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	store := session.NewRedisStore(cfg.RedisAddr, cfg.SessionTTL)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(store.Client, "portal:audit")
	}

	var repo *audit.Repository
	db, err := audit.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable, audit events will only be logged: %v", err)
	} else {
		repo = audit.NewRepository(db.Client)
		defer db.Close()
	}

	payloads, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume failed: %v", err)
	}

	// Bursts of events (a class logging in at 07:00) collapse into one
	// summary line once the queue goes quiet.
	var mu sync.Mutex
	pending := map[audit.Kind]int{}
	flush := debounce.New(cfg.AuditFlushQuiet, func() {
		mu.Lock()
		defer mu.Unlock()
		if len(pending) == 0 {
			return
		}
		log.Printf("audit: %d login, %d logout, %d expired",
			pending[audit.KindLogin], pending[audit.KindLogout], pending[audit.KindExpired])
		pending = map[audit.Kind]int{}
	})
	defer flush.Stop()

	log.Println("audit worker started")
	for payload := range payloads {
		evt, err := audit.Decode(payload)
		if err != nil {
			log.Printf("audit decode failed: %v", err)
			continue
		}

		mu.Lock()
		pending[evt.Kind]++
		mu.Unlock()
		flush.Poke()

		if repo != nil {
			if err := repo.Insert(ctx, evt); err != nil {
				log.Printf("audit insert failed: %v", err)
			}
		}
	}
	log.Println("audit worker stopped")
}
