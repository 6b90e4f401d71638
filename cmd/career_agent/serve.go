package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-docs/internal/config"
	"github.com/jonathan/career-docs/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the REST API: authentication, CV upload, tailored CV and Value Proposition Report generation, and stored document retrieval.",
	RunE:  serveCmd,
}

var (
	serveConfigPath  string
	servePort        int
	serveDatabaseURL string
	serveAPIKey      string
	serveUseBrowser  bool
	serveVerbose     bool
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (defaults to PORT env var, then 8080)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCommand.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	serveCommand.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for SPA company sites (requires Chrome)")
	serveCommand.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(serveCommand)
}

func serveCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set --db-url or DATABASE_URL)")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (set --api-key or GEMINI_API_KEY)")
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	return srv.Start()
}
