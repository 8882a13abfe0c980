package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/tickit/internal/server"
	"github.com/dmitrijs2005/tickit/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if cfg.MintTokenFor != "" {
		if err := server.MintToken(cfg); err != nil {
			log.Printf("%v", err)
		}
		return
	}

	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
