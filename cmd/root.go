package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kestrelworks/archgraph-cli/internal/config"
	"github.com/kestrelworks/archgraph-cli/internal/observability"
	"github.com/kestrelworks/archgraph-cli/internal/store"
)

var cfgFile string

type contextKey string

// configKey carries the loaded config through the cobra command context.
const configKey contextKey = "archgraph-config"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "archgraph",
	Short:         "Archgraph maintains a knowledge graph of your software architecture.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "archgraph"})
			return err
		}
		observability.InitializeLogger(cfg.Logger)
		cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
		return nil
	},
}

// getConfigFromContext pulls the config stashed by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Config, error) {
	cfg, ok := ctx.Value(configKey).(config.Config)
	if !ok {
		return config.Config{}, fmt.Errorf("configuration missing from command context")
	}
	return cfg, nil
}

// storeProvider creates the data store for a command. The indirection lets
// tests inject a mock instead of a live database connection.
type storeProvider interface {
	Create(ctx context.Context, cfg config.Config) (*store.Store, func(), error)
}

type defaultStoreProvider struct{}

// NewStoreProvider returns the production store provider.
func NewStoreProvider() storeProvider {
	return &defaultStoreProvider{}
}

// Create connects to PostgreSQL, ensures the schema, and returns the store
// with a cleanup function that closes the pool.
func (p *defaultStoreProvider) Create(ctx context.Context, cfg config.Config) (*store.Store, func(), error) {
	logger := observability.GetLogger()
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("database URL is not configured (ARCHGRAPH_DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := store.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		logger.Debug("Database connection pool closed.")
	}
	return s, cleanup, nil
}

// Execute adds all child commands to the root command and runs it. ctx is
// expected to be signal-aware so in-flight database work stops on Ctrl+C.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	provider := NewStoreProvider()
	rootCmd.AddCommand(
		newReindexCmd(provider),
		newCheckCmd(provider),
		newDiffCmd(),
		newWhyCmd(provider),
		newContextCmd(provider),
		newSnapshotCmd(provider),
	)
}
