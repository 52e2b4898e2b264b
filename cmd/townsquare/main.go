package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/smirnovds/townsquare/internal/client/cli"
	clientconfig "github.com/smirnovds/townsquare/internal/client/config"
	serverconfig "github.com/smirnovds/townsquare/internal/server/config"
)

func main() {

	ctx := context.Background()

	// Optional .env overlay; real environment variables win.
	_ = godotenv.Load()

	srvCfg, err := serverconfig.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	cliCfg, err := clientconfig.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, srvCfg, cliCfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
