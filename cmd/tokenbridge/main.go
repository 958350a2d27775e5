package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/tokenbridge/internal/client/cli"
	"github.com/dmitrijs2005/tokenbridge/internal/client/config"
)

func main() {

	cfg, rest, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.NewApp(cfg).Run(ctx, rest)
	stop()

	os.Exit(code)

}
