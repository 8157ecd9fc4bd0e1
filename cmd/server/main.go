package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mine-and-die/pursuit/internal/app"
	"mine-and-die/pursuit/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "pursuit.yaml", "path to the YAML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, app.Config{
		ConfigPath: *configPath,
		Logger:     telemetry.WrapLogger(log.Default()),
		LookupEnv:  os.LookupEnv,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
}
