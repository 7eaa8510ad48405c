package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		flags      config.Config
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server that exposes the résumé REST endpoints.

Records are kept in PostgreSQL when DATABASE_URL is set and in memory otherwise.
JWT_SECRET is required.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadSettings(flags, configPath)
			if err != nil {
				return err
			}

			sc, err := serverConfig(cfg)
			if err != nil {
				return err
			}
			srv, err := server.New(sc)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&flags.Port, "port", 0, "Port to listen on (default 8080, or PORT)")
	cmd.Flags().StringVar(&flags.DatabaseURL, "db-url", "", "PostgreSQL URL (default DATABASE_URL; in-memory when empty)")
	cmd.Flags().StringVar(&flags.RedisURL, "redis-url", "", "Redis URL for the delete guard (default REDIS_URL)")
	cmd.Flags().StringVar(&flags.Locale, "locale", "", "Default export locale (default RESUME_LOCALE, then Accept-Language)")
	cmd.Flags().StringVar(&flags.ChromePath, "chrome", "", "Chrome/Chromium binary for PDF export (default CHROME_PATH)")
	cmd.Flags().StringVar(&flags.PDFEngine, "pdf-engine", "", "PDF engine: chrome or latex (default PDF_ENGINE, then chrome)")
	cmd.Flags().StringVar(&flags.LaTeXTemplate, "template", "", "Custom LaTeX template file")
	cmd.Flags().StringVar(&configPath, "config", "", "JSON config file")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log Chrome output during PDF export")

	return cmd
}

func serverConfig(cfg config.Config) (server.Config, error) {
	engine, err := rendering.ParsePDFEngine(cfg.PDFEngine)
	if err != nil {
		return server.Config{}, err
	}
	return server.Config{
		Port:          cfg.Port,
		DatabaseURL:   cfg.DatabaseURL,
		RedisURL:      cfg.RedisURL,
		Locale:        cfg.Locale,
		ChromePath:    cfg.ChromePath,
		PDFEngine:     engine,
		LaTeXTemplate: cfg.LaTeXTemplate,
		Verbose:       cfg.Verbose,
	}, nil
}
