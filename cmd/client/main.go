package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/tickit/internal/client/cli"
	"github.com/dmitrijs2005/tickit/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o700); err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
