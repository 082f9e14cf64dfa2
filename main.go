package main

import (
	"flag"
	"os"

	"cfpanel/internal/config"
	"cfpanel/internal/logging"
	"cfpanel/internal/server"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	log := logging.New("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log.Info("=== cfpanel — DNS panel ===", "version", version)
	log.Info("listening", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if cfg.Auth.Enabled {
		log.Info("operator sign-in gate enabled", "ldap", cfg.LDAP.Enabled)
	}

	if err := server.Start(cfg, version); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
