package main

import (
	"context"
	"flag"
	"log"
	"os"

	carpoolservice "decarpool/internal/carpool-service"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (env vars used when empty)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.NewFromYAML(*configPath)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger.Action("carpool_service_started").Info("Carpool service starting up")

	if err := carpoolservice.Execute(context.Background(), appLogger, cfg); err != nil {
		appLogger.Error("Service exited with error", err)
		os.Exit(1)
	}
}
