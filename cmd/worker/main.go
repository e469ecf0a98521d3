package main

import (
	"context"
	"log"

	"github.com/golfcoachpro/backend/internal/server"
	"github.com/golfcoachpro/backend/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	worker, err := server.NewWorker(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := worker.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
