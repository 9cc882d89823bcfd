// Package internal provides the application initialization and the command
// implementations behind the syllabus CLI.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/ledger"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/metrics"
	"github.com/starford/syllabus/internal/pipeline"
	"github.com/starford/syllabus/internal/publish"
	"github.com/starford/syllabus/internal/server"
	"github.com/starford/syllabus/internal/sse"
)

// Command names a CLI command.
type Command string

// Commands.
const (
	CommandBuild    Command = "build"
	CommandValidate Command = "validate"
	CommandPublish  Command = "publish"
	CommandWatch    Command = "watch"
	CommandServe    Command = "serve"
	CommandHistory  Command = "history"
)

// ErrLedgerDisabled is returned by commands that need the build ledger when
// no ledger path is configured.
var ErrLedgerDisabled = errors.New("build ledger disabled: set ledger.path")

// Run executes command with the given options.
func Run(ctx context.Context, command Command, opts ...Option) error {
	app := &application{
		out:          os.Stdout,
		logOut:       os.Stderr,
		publish:      true,
		historyLimit: 20,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(app.logOut, cfg.App)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("command", string(command)),
		slog.String("content_root", cfg.Content.Root),
		slog.String("artifacts_dir", cfg.Build.ArtifactsDir),
		slog.String("public_dir", cfg.Publish.PublicDir),
		slog.String("ledger_path", cfg.Ledger.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var (
		db       *ledger.DB
		pipeOpts []pipeline.Option
	)
	if cfg.Ledger.Path != "" {
		var err error
		db, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("init ledger: %w", err)
		}
		defer db.Close()
		pipeOpts = append(pipeOpts, pipeline.WithLedger(db))
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	var broker *sse.Broker
	if command == CommandServe && app.serveWatch {
		broker = sse.NewBroker(15 * time.Second)
		defer broker.Close()
		pipeOpts = append(pipeOpts, pipeline.WithEvents(broker))
	}

	p := pipeline.New(pipeline.Settings{
		ContentRoot:    cfg.Content.Root,
		ArtifactsDir:   cfg.Build.ArtifactsDir,
		PublicDir:      cfg.Publish.PublicDir,
		Workers:        cfg.Build.Workers,
		ExcerptLength:  cfg.Build.ExcerptLength,
		AutoHeadingIDs: cfg.Compiler.AutoHeadingIDs,
		Publish: publish.Options{
			Prefix:     cfg.Publish.Prefix,
			PruneStale: cfg.Publish.PruneStale,
		},
	}, append(pipeOpts, pipeline.WithRecorder(recorder), pipeline.WithLogger(logger))...)

	switch command {
	case CommandValidate:
		m, err := p.Validate(ctx)
		if err != nil {
			printProblems(app.out, err)
			return err
		}
		st := m.Stats()
		fmt.Fprintf(app.out, "ok: %d subjects, %d teachers, %d articles, %d system articles\n",
			st.Subjects, st.Teachers, st.Articles, st.SystemArticles)
		for _, w := range m.Warnings() {
			fmt.Fprintf(app.out, "warning: %s: %s\n", w.Path, w.Message)
		}
		return nil

	case CommandBuild:
		res, err := p.Build(ctx, app.publish)
		writeTextfile(logger, reg, cfg.Metrics.Textfile)
		if err != nil {
			printProblems(app.out, err)
			return err
		}
		fmt.Fprintf(app.out, "built %s\n", res.Search.Meta.Hash)
		if res.Report != nil {
			for _, f := range res.Report.Files {
				fmt.Fprintf(app.out, "published %s\n", f)
			}
		}
		return nil

	case CommandPublish:
		report, err := p.Publish(ctx)
		if errors.Is(err, apperr.ErrPublishSkipped) {
			fmt.Fprintln(app.out, "nothing to publish")
			return nil
		}
		if err != nil {
			return err
		}
		for _, f := range report.Files {
			fmt.Fprintf(app.out, "published %s\n", f)
		}
		for _, f := range report.Pruned {
			fmt.Fprintf(app.out, "pruned %s\n", f)
		}
		return nil

	case CommandHistory:
		if db == nil {
			return ErrLedgerDisabled
		}
		builds, err := db.Recent(ctx, app.historyLimit)
		if err != nil {
			return err
		}
		printHistory(app.out, builds)
		return nil

	case CommandWatch:
		return untilSignal(ctx, logger, nil, func(ctx context.Context) error {
			return p.Watch(ctx, cfg.Watch.Debounce)
		})

	case CommandServe:
		routerCfg := server.Config{
			PublicDir:   cfg.Publish.PublicDir,
			Prefix:      cfg.Publish.Prefix,
			Registry:    reg,
			AuthEnabled: cfg.Auth.AuthEnabled(),
			AuthToken:   cfg.Auth.Token,
			Logger:      logger,
		}
		if db != nil {
			routerCfg.Ledger = db
		}
		if broker != nil {
			routerCfg.Events = broker
		}
		router := server.NewRouter(routerCfg)
		httpServer := &http.Server{
			Addr:              cfg.App.HTTP.Address(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		tasks := []func(context.Context) error{
			func(context.Context) error {
				logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("HTTP server error: %w", err)
				}
				return nil
			},
		}
		if app.serveWatch {
			tasks = append(tasks, func(ctx context.Context) error {
				return p.Watch(ctx, cfg.Watch.Debounce)
			})
		}
		return untilSignal(ctx, logger, func() {
			logger.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", logfields.Error(err))
			}
		}, tasks...)
	}

	return fmt.Errorf("unknown command %q", command)
}

// untilSignal runs tasks until one fails, ctx is cancelled, or SIGINT/SIGTERM
// arrives. shutdown, if non-nil, is called once the run should stop.
func untilSignal(ctx context.Context, logger *slog.Logger, shutdown func(), tasks ...func(context.Context) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gCtx)
	defer stop()

	for _, task := range tasks {
		g.Go(func() error {
			defer stop()
			return task(runCtx)
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-runCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		stop()
		if shutdown != nil {
			shutdown()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", logfields.Error(err))
		return err
	}
	logger.Info("Stopped")
	return nil
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// printProblems writes one line per aggregated problem, or the error itself
// when it carries none.
func printProblems(w io.Writer, err error) {
	problems := apperr.Problems(err)
	if len(problems) == 0 {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	for _, p := range problems {
		fmt.Fprintln(w, p.String())
	}
	fmt.Fprintf(w, "%d problem(s) found\n", len(problems))
}

func printHistory(w io.Writer, builds []ledger.Build) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tSTATUS\tPROBLEMS\tPUBLISHED\tHASH")
	for _, b := range builds {
		hash := b.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\t%s\n",
			b.ID, b.StartedAt.Format(time.RFC3339), b.Duration, b.Status, b.Problems, b.Published, hash)
	}
	_ = tw.Flush()
}

func writeTextfile(logger *slog.Logger, reg *prom.Registry, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(reg, path); err != nil {
		logger.Warn("metrics textfile not written", logfields.Path(path), logfields.Error(err))
	}
}
