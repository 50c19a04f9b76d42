package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadServerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("No database configured, running without accounts and scoreboard")
	}

	hub := NewHub(cfg, db)
	go hub.Run()

	mux := SetupRoutes(hub, cfg)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	if hub.analytics != nil {
		hub.analytics.Stop()
	}
	server.Close()
}
