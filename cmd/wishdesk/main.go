package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/WishDesk/internal/client"
	"github.com/Kerhoff/WishDesk/internal/config"
	"github.com/Kerhoff/WishDesk/internal/service"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wishdesk",
	Short: "Operator console for the Wishlist REST API",
	Long: `WishDesk drives a Wishlist REST API from a single form of wishlist and
item fields. Every action validates the form, sends one request and writes the
response back into the form, with a flash message and, for searches, a results
table.

Examples:
  # Serve the web console on $PORT
  wishdesk serve

  # Interactive terminal console
  wishdesk shell

  # One-shot action
  wishdesk run search-wishlists --field wishlist_name=Birthday`,
	SilenceUsage: true,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.AddCommand(newServeCmd(), newShellCmd(), newRunCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything the subcommands share.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	registry *prometheus.Registry
	svc      *service.Service
}

// bootstrap loads configuration and wires the client and service. A nil
// logger uses one built from the configured level.
func bootstrap(l *logrus.Logger) (*app, error) {
	// A missing dotenv file is fine; the environment may already be set.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if l == nil {
		l = logger.New(cfg.LogLevel)
	}

	var opts []client.Option
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, client.WithMetrics(client.NewMetrics(registry)))
	}

	api := client.New(cfg.APIBaseURL, cfg.RequestTimeout, l, opts...)
	return &app{
		cfg:      cfg,
		logger:   l,
		registry: registry,
		svc:      service.New(api, l),
	}, nil
}
