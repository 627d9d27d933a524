package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Pusher91/urlverdict/internal/config"
	"github.com/Pusher91/urlverdict/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("warning: %v", err)
	}

	srv := server.New(cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, srv.Routes()) }()
	log.Printf("listening on %s (data dir %s)", cfg.ListenAddr, srv.DataDir())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
	case err := <-errCh:
		log.Fatal(fmt.Errorf("server error: %w", err))
	}
}
