package main

import (
	"context"
	"errors"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/livedom-dev/livedom/internal/config"
	ldErrors "github.com/livedom-dev/livedom/internal/errors"
	"github.com/livedom-dev/livedom/pkg/record"
	"github.com/livedom-dev/livedom/pkg/server"
	"github.com/livedom-dev/livedom/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		address    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sink server",
		Long: `Run the sink server that receives display frames.

Producers connect over WebSocket at /ws and stream create, replace,
and patch frames. The server keeps the current document per display
and serves it as JSON:

  GET /healthz           liveness and display count
  GET /metrics           Prometheus metrics
  GET /displays          list of display ids
  GET /displays/{id}     current document

Configuration is read from livedom.json in the working directory.

Examples:
  livedom serve
  livedom serve --address=0.0.0.0:7420
  livedom serve --config=/etc/livedom/livedom.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, address)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to livedom.json (default ./livedom.json)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(configPath, address string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	opts, err := serverOptions(cfg)
	if err != nil {
		return err
	}

	printBanner()
	info("serving on %s", cfg.Server.Address)
	info("snapshot backend: %s", cfg.Snapshot.Backend)
	info("record backend: %s", cfg.Record.Backend)

	srv := server.New(&server.Config{
		Address:           cfg.Server.Address,
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		WriteTimeout:      cfg.WriteTimeoutDuration(),
		HeartbeatInterval: cfg.HeartbeatDuration(),
		MaxDisplays:       cfg.Limits.MaxDisplays,
		Metrics:           cfg.Server.Metrics,
	}, opts...)

	return srv.Run()
}

// loadConfig reads livedom.json, falling back to defaults when no file
// exists and none was requested explicitly.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		var ldErr *ldErrors.Error
		if errors.As(err, &ldErr) && ldErr.Code == "LD101" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// serverOptions builds the snapshot store and recorder from config.
func serverOptions(cfg *config.Config) ([]server.Option, error) {
	var opts []server.Option

	switch cfg.Snapshot.Backend {
	case "", "memory":
		opts = append(opts, server.WithSnapshotStore(
			store.NewMemoryStore(), cfg.SnapshotTTLDuration()))
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Snapshot.RedisAddr})
		var storeOpts []store.RedisStoreOption
		if cfg.Snapshot.Prefix != "" {
			storeOpts = append(storeOpts, store.WithRedisPrefix(cfg.Snapshot.Prefix))
		}
		opts = append(opts, server.WithSnapshotStore(
			store.NewRedisStore(client, storeOpts...), cfg.SnapshotTTLDuration()))
	}

	switch cfg.Record.Backend {
	case "", "none":
	case "disk":
		rec, err := record.NewDiskRecorder(cfg.Record.Dir)
		if err != nil {
			return nil, ldErrors.New("LD302").Wrap(err)
		}
		opts = append(opts, server.WithRecorder(rec))
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, ldErrors.New("LD302").Wrap(err)
		}
		var recOpts []record.S3Option
		if cfg.Record.Prefix != "" {
			recOpts = append(recOpts, record.WithKeyPrefix(cfg.Record.Prefix))
		}
		opts = append(opts, server.WithRecorder(
			record.NewS3Recorder(s3.NewFromConfig(awsCfg), cfg.Record.Bucket, recOpts...)))
	}

	return opts, nil
}
