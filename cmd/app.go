package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/salesdocs/internal/blob"
	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/document"
	"github.com/ginjaninja78/salesdocs/internal/logging"
	"github.com/ginjaninja78/salesdocs/internal/metrics"
	"github.com/ginjaninja78/salesdocs/internal/store"
)

// app bundles what a command needs. Close it when the command returns.
type app struct {
	cfg     *config.Config
	zap     *zap.Logger
	log     logging.Logger
	store   *store.Store
	blobs   blob.Store
	metrics *metrics.Metrics
}

// loadConfig reads --config. Without the flag a missing config.yaml falls
// back to the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.LoadConfig(cfgFile)
	}
	return config.LoadOrDefault(cfgFile)
}

// openApp loads the configuration and opens the store. Blob storage is
// opened only when withBlobs is set.
func openApp(cmd *cobra.Command, withBlobs bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	zl, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, zap: zl, log: logging.Wrap(zl), metrics: metrics.New()}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.store, err = store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, a.log)
	if err != nil {
		_ = zl.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if withBlobs {
		a.blobs, err = blob.Open(ctx, cfg.Storage)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}
	return a, nil
}

func (a *app) generator() *document.Generator {
	return document.New(a.store, a.blobs, a.metrics, a.cfg, a.log)
}

// Close writes the metrics textfile and releases the store.
func (a *app) Close() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("%v", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database: %v", err)
	}
	_ = a.zap.Sync()
}

// withApp opens the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, withBlobs bool, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd, withBlobs)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}

// notFoundHint adds the listing command to a not-found error.
func notFoundHint(err error, list string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w (see 'salesdocs %s')", err, list)
	}
	return err
}
