// Package commands implements CLI command handlers for griefer.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/INLOpen/scapegoat"
	"github.com/INLOpen/scapegoat/internal/banlist"
	"github.com/INLOpen/scapegoat/internal/config"
	"github.com/INLOpen/scapegoat/internal/metrics"
)

const metricsShutdownTimeout = 2 * time.Second

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath  string
	Alpha       float64
	Capacity    int
	Strict      bool
	Format      string
	MetricsAddr string
	Verbose     bool
	Quiet       bool
}

// Register adds the persistent flags to cmd.
func (o *GlobalOptions) Register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.ConfigPath, "config", "", "Path to a griefer.yaml config file")
	flags.Float64Var(&o.Alpha, "alpha", scapegoat.DefaultAlpha, "Scapegoat balance factor, in (0.5, 1)")
	flags.IntVar(&o.Capacity, "capacity", 0, "Pre-size the tree for this many distinct users")
	flags.BoolVar(&o.Strict, "strict", false, "Fail on the first malformed ban line instead of skipping it")
	flags.StringVar(&o.Format, "format", config.DefaultOutputFormat, "Output format: text, table")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "suppress output")
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"alpha":        "tree.alpha",
	"capacity":     "tree.capacity",
	"strict":       "loader.strict",
	"format":       "output.format",
	"metrics-addr": "metrics.addr",
}

// session is everything a command needs once configuration is resolved.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.TreeMetrics
	tree    *scapegoat.Tree
	stderr  io.Writer
	quiet   bool
}

// openSession resolves configuration (defaults < file < env < flags) and
// builds the tree with its logger and metrics attached.
func (o *GlobalOptions) openSession(cmd *cobra.Command) (*session, error) {
	viperCfg := config.New(o.ConfigPath)

	if err := bindChangedFlags(viperCfg, cmd); err != nil {
		return nil, err
	}

	switch {
	case o.Verbose:
		viperCfg.Set("logging.level", "debug")
	case o.Quiet:
		viperCfg.Set("logging.level", "error")
	}

	cfg, err := config.Load(viperCfg)
	if err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	logger := cfg.Logging.NewLogger(stderr)
	treeMetrics := metrics.New()

	opts := append(cfg.TreeOptions(),
		scapegoat.WithObserver(treeMetrics),
		scapegoat.WithLogger(logger),
	)

	return &session{
		cfg:     cfg,
		logger:  logger,
		metrics: treeMetrics,
		tree:    scapegoat.New(opts...),
		stderr:  stderr,
		quiet:   o.Quiet,
	}, nil
}

func bindChangedFlags(viperCfg *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}

		if err := viperCfg.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}

// load reads a ban-list file into the session's tree.
func (s *session) load(ctx context.Context, path string) (banlist.Stats, error) {
	loader := &banlist.Loader{Strict: s.cfg.Loader.Strict, Logger: s.logger}

	stats, err := loader.LoadFile(ctx, path, s.tree)
	if err != nil {
		return stats, err
	}

	s.logger.Info("loaded ban list",
		"path", path,
		"bans", humanize.Comma(int64(stats.Created+stats.Merged)),
		"users", humanize.Comma(int64(s.tree.Len())),
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed,
	)

	return stats, nil
}

// serveMetrics starts the Prometheus endpoint when one is configured and
// returns a function that shuts it down.
func (s *session) serveMetrics() func() {
	addr := s.cfg.Metrics.Addr
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		s.logger.Info("serving metrics", "addr", addr)

		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("metrics server shutdown", "error", err)
		}
	}
}
