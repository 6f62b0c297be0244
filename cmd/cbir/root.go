package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/cbir/config"
	"github.com/viant/cbir/embedding"
	"github.com/viant/cbir/engine"
	"github.com/viant/cbir/internal/logging"
	"github.com/viant/cbir/retrieval"
)

type app struct {
	v        *viper.Viper
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *retrieval.Metrics
}

// persistent flag name -> config key
var flagKeys = map[string]string{
	"scheme":              "scheme",
	"bins":                "bins",
	"k":                   "k",
	"workers":             "workers",
	"cache-size":          "cache_size",
	"suppress-self-match": "suppress_self_match",
	"epsilon":             "epsilon",
	"database":            "database",
	"embeddings":          "embeddings",
	"log-level":           "log.level",
	"log-format":          "log.format",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	var configFile, metricsOut string
	root := &cobra.Command{
		Use:           "cbir",
		Short:         "Content-based image retrieval over a directory of images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional
			_ = godotenv.Load()
			config.BindEnv(a.v)
			cfg, err := config.Load(a.v, configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.logger, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level); err != nil {
				return err
			}
			a.registry = prometheus.NewRegistry()
			a.metrics, err = retrieval.NewMetrics(a.registry)
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if metricsOut == "" {
				return nil
			}
			return prometheus.WriteToTextfile(metricsOut, a.registry)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file on exit")
	flags.String("scheme", "baseline", "feature scheme: baseline, rg-chromaticity, rgb-chromaticity, spatial-color, texture-color, embedding, composite")
	flags.Int("bins", 0, "bins per axis for the chromaticity schemes (0 selects the default)")
	flags.IntP("k", "k", 4, "number of results")
	flags.Int("workers", 0, "concurrent extractions (0 means GOMAXPROCS)")
	flags.Int("cache-size", 0, "feature cache entries (0 disables the cache)")
	flags.Bool("suppress-self-match", true, "drop a leading result whose distance is below --epsilon")
	flags.Float32("epsilon", 1e-4, "self-match distance threshold")
	flags.String("database", "data/olympus", "image database directory")
	flags.String("embeddings", "data/ResNet18_olym.csv", "embedding table (.csv, .sqlite or .db)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	for name, key := range flagKeys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(a.searchCmd(), a.indexCmd(), a.embeddingsCmd())
	return root
}

func (a *app) engine() (*retrieval.Engine, error) {
	opts := []retrieval.Option{
		retrieval.WithLogger(a.logger),
		retrieval.WithWorkers(a.cfg.Workers),
		retrieval.WithCacheSize(a.cfg.CacheSize),
		retrieval.WithWeights(a.cfg.Weights),
		retrieval.WithSkinTone(a.cfg.Skin),
		retrieval.WithMetrics(a.metrics),
	}
	if a.cfg.SuppressSelfMatch {
		opts = append(opts, retrieval.WithSelfMatchSuppression(a.cfg.Epsilon))
	}
	return retrieval.New(opts...)
}

// loadEmbeddings reads the configured embedding table from CSV or SQLite.
func (a *app) loadEmbeddings(ctx context.Context) (*embedding.Table, error) {
	path := a.cfg.Embeddings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		store, closeFn, err := openStore(path)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return store.Load(ctx)
	default:
		return embedding.LoadCSV(path)
	}
}

// openStore opens the SQLite embedding store at path with the cbir_*
// functions registered.
func openStore(path string) (*embedding.SQLiteStore, func(), error) {
	if err := engine.RegisterDistanceFunctions(); err != nil {
		return nil, nil, err
	}
	db, err := engine.Open(path)
	if err != nil {
		return nil, nil, err
	}
	store, err := embedding.NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open embedding store %s: %w", path, err)
	}
	return store, func() { _ = db.Close() }, nil
}

