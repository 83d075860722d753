package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gopizza-pos/api/internal/config"
	"github.com/gopizza-pos/api/internal/notify"
	"github.com/gopizza-pos/api/internal/router"
	"github.com/gopizza-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	var pub *notify.Publisher
	if cfg.AMQPURL != "" {
		pub, err = notify.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("WARNING: event publishing disabled: %v", err)
		} else {
			defer pub.Close()
			log.Println("Connected to message broker")
		}
	} else {
		log.Println("AMQP_URL not set, event publishing disabled")
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, pool, hub, pub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
