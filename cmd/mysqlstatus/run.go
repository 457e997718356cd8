package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/mysqlstatus/internal/config"
	"codeberg.org/mutker/mysqlstatus/internal/database"
	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/export"
	"codeberg.org/mutker/mysqlstatus/internal/history"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/pid"
	"codeberg.org/mutker/mysqlstatus/internal/presenter"
	"codeberg.org/mutker/mysqlstatus/internal/sampler"
	"codeberg.org/mutker/mysqlstatus/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const outfilePerm = 0o644

func run(ctx context.Context, cfg *config.Config) error {
	errFactory := errors.New()

	interactive := !cfg.NonInteractive && cfg.ExportConfig == ""
	if err := logger.Init(logger.Options{
		Debug:       cfg.Debug,
		File:        cfg.LogFile,
		Interactive: interactive,
	}); err != nil {
		return errFactory.Wrap(errors.ErrInitLogger, err)
	}
	defer logger.Close()

	logger.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("mode", cfg.InitialMode().String()).
		Int("interval", cfg.Interval).
		Msg("Config loaded")

	if interactive && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errFactory.New(errors.ErrNotTerminal)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go handleSignals(ctx, cancel)

	var exportCfg export.Config
	if cfg.ExportConfig != "" {
		var err error
		if exportCfg, err = export.LoadConfig(cfg.ExportConfig); err != nil {
			return err
		}
	}

	db, err := database.Open(ctx, cfg.Database())
	if err != nil {
		return err
	}

	info, err := sampler.LoadServerInfo(ctx, db)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load server variables")
	}

	recorder, err := history.NewService(cfg.HistoryConfig(), logger.Get())
	if err != nil {
		db.Close()
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close history recorder")
		}
	}()

	st := store.New(cfg.InitialMode())

	p, release, err := newPresenter(ctx, cfg, exportCfg, st, info)
	if err != nil {
		db.Close()
		return err
	}
	defer release()

	smp := sampler.New(db, st, sampler.Options{
		Interval: cfg.SampleInterval(),
		Recorder: recorder,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return smp.Run(gctx)
	})

	runErr := p.Run(gctx)
	st.Stop()
	waitErr := g.Wait()

	if runErr != nil {
		var appErr errors.Error
		if errors.As(runErr, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Presenter stopped")
		}
		return runErr
	}
	if waitErr != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, waitErr)
	}

	logger.Debug().Msg("Shutdown complete")

	return nil
}

// newPresenter builds the presenter selected by cfg. release frees what the
// presenter holds beyond its own lifetime.
func newPresenter(
	ctx context.Context,
	cfg *config.Config,
	exportCfg export.Config,
	st *store.Store,
	info model.ServerInfo,
) (p presenter.Presenter, release func(), err error) {
	switch {
	case cfg.ExportConfig != "":
		return newExporter(ctx, cfg, exportCfg, st, info)

	case cfg.NonInteractive:
		var out io.Writer = os.Stdout
		release = func() {}
		if cfg.Outfile != "" {
			f, err := os.OpenFile(cfg.Outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, outfilePerm)
			if err != nil {
				return nil, nil, errors.New().Wrap(errors.ErrWriteOutput, err)
			}
			out = f
			release = func() { f.Close() }
		}
		s, err := presenter.NewStream(st, presenter.StreamOptions{
			Output: out,
			Format: cfg.Format,
			Count:  cfg.Count,
		})
		if err != nil {
			release()
			return nil, nil, err
		}
		return s, release, nil

	default:
		return presenter.NewTerminal(st, presenter.TerminalOptions{
			Info:     info,
			Location: cfg.Location(),
		}), func() {}, nil
	}
}

func newExporter(
	ctx context.Context,
	cfg *config.Config,
	exportCfg export.Config,
	st *store.Store,
	info model.ServerInfo,
) (presenter.Presenter, func(), error) {
	pidFile, err := pid.Write(pid.Path("", cfg.Host, cfg.Port))
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := pidFile.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}

	client, err := export.NewElasticStore(exportCfg)
	if err != nil {
		release()
		return nil, nil, err
	}

	e, err := presenter.NewExporter(ctx, st, client, exportCfg, info)
	if err != nil {
		release()
		return nil, nil, err
	}

	return e, release, nil
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal")
		cancel()
	case <-ctx.Done():
	}
}
