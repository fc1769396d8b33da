package main

import (
	"context"
	"log"
	"os"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/server"
	"github.com/jonathan/resume-layout/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server that renders and validates résumé records.

Rendered documents can be stored when a PostgreSQL database is configured
with DATABASE_URL (or database_url in the config file). Setting JWT_SECRET
requires a bearer token on the document routes.`,
	RunE: runServe,
}

var (
	servePort     int
	serveMaxPages int
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveMaxPages, "max-pages", 0, "Default page budget for /validate")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		MaxPages:    serveMaxPages,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})
	if err != nil {
		return err
	}

	jwtConfig, err := config.JWTFromEnv()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		log.Printf("[server] JWT_SECRET not set, document routes are unauthenticated")
	}
	if cfg.DatabaseURL == "" {
		log.Printf("[server] no database configured, document storage is disabled")
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:        servePort,
		DatabaseURL: cfg.DatabaseURL,
		JWT:         jwtConfig,
		RateLimit:   ratelimit.LoadConfig(),
		MaxPages:    cfg.MaxPages,
	})
	if err != nil {
		return err
	}
	return srv.Start()
}
