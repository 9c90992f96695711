package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/evidencevault/internal/client/cli"
	"github.com/dmitrijs2005/evidencevault/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	err = app.Run(ctx, os.Args[1:])
	_ = app.Close()

	if err != nil {
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}

}
