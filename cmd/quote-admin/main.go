package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/internal/session"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("quote-admin")
	cfg, err := config.GetAdminConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	tokens := session.New(cfg.Session.Token)
	if user, err := tokens.Username(); err == nil {
		log.Info().Str("user", user).Msg("admin session")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, tokens, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	cli := newApp(serverAdapter, cfg, log, os.Stdout, os.Stdin)
	if err = cli.run(flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
