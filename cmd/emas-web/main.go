package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // embedded CA roots for minimal container images

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/client"
	"github.com/emasmetal/website/internal/ui/config"
	"github.com/emasmetal/website/internal/ui/server"
	"github.com/emasmetal/website/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "emas-web",
		Short: "EMAS Metal website",
		Long:  `Server-rendered company website backed by the EMAS Metal content API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.Version = version.Get().String()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load website configuration: %v\n", err)
		return err
	}

	serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(serverLogger)

	serverLogger.Info("Starting website server", slog.String("version", version.Get().Version), slog.String("environment", cfg.Environment))
	serverLogger.Info("using content API", slog.String("api_base_url", cfg.APIBaseURL))

	apiClient := client.NewClient(cfg.APIBaseURL, client.WithLogger(serverLogger))

	srv := server.NewServer(cfg, serverLogger, apiClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		serverLogger.Error("website server error", slog.String("error", err.Error()))
		return err
	}

	serverLogger.Info("website server shutdown complete")
	return nil
}
