package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tidemark/internal/back"
	"tidemark/internal/config"
	"tidemark/internal/web"
)

// dataMigrationTimeout bounds the one-time data tasks run at startup. On
// timeout the task is simply retried on the next start.
const dataMigrationTimeout = 30 * time.Second

func serve(b *back.Back, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), dataMigrationTimeout)
	if err := b.RunDataMigrations(ctx); err != nil {
		log.Printf("warning: data migrations incomplete: %s", err)
	}
	cancel()

	done := make(chan struct{})
	signaled := make(chan os.Signal, 1)
	signal.Notify(signaled, syscall.SIGINT, syscall.SIGTERM)

	server := web.NewServer(b, cfg.HTTPListen, cfg.ResourcesDir, cfg.APIRequestsPerSecond)

	var wg sync.WaitGroup
	go server.Serve(&wg, done)

	sig := <-signaled
	log.Printf("received signal %d", sig)
	close(done)
	wg.Wait()

	log.Print("shutdown complete")

	return nil
}
