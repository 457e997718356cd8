package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db            *sql.DB
	logger        logger.Logger
	cfg           Config
	mu            sync.Mutex
	buffer        []*Sample
	flushTicker   *time.Ticker
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
	closeOnce     sync.Once
	closeErr      error
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Int("batch_timeout", cfg.BatchTimeout).
		Msg("History repository initialized")

	repo := &repository{
		db:            db,
		logger:        log,
		cfg:           cfg,
		buffer:        make([]*Sample, 0, max(cfg.BatchSize, 1)),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}

	if cfg.BatchSize > 1 && cfg.BatchTimeout > 0 {
		repo.flushTicker = time.NewTicker(time.Duration(cfg.BatchTimeout) * time.Second)
		go repo.flusher()
	} else {
		close(repo.flushDoneChan)
	}

	return repo, nil
}

func (r *repository) Record(sample *Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, sample)

	if len(r.buffer) >= r.cfg.BatchSize {
		return r.flush()
	}

	return nil
}

// Recent returns up to limit samples, newest first. Buffered samples are
// flushed first.
func (r *repository) Recent(ctx context.Context, limit int) ([]*Sample, error) {
	errFactory := errors.New()

	r.mu.Lock()
	err := r.flush()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, recentSamplesSQL, limit)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		var (
			ts int64
			s  Sample
		)
		if err := rows.Scan(&ts, &s.QPS, &s.BufferHit, &s.Questions, &s.Uptime,
			&s.ThreadsConnected, &s.ThreadsRunning); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		s.Timestamp = time.Unix(ts, 0).UTC()
		samples = append(samples, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return samples, nil
}

func (r *repository) Close() error {
	r.closeOnce.Do(func() {
		close(r.shutdownChan)
		if r.flushTicker != nil {
			r.flushTicker.Stop()
		}
		<-r.flushDoneChan

		r.mu.Lock()
		err := r.flush()
		r.mu.Unlock()
		if err != nil {
			r.logger.Error().Err(err).Msg("Failed to flush history on close")
		}

		if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			r.logger.Debug().Err(err).Msg("Failed to checkpoint WAL")
		}

		if err := r.db.Close(); err != nil {
			r.closeErr = errors.New().Wrap(ErrStorageClose, err)
			return
		}

		r.logger.Info().Msg("History repository closed")
	})

	return r.closeErr
}

func (r *repository) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushTicker.C:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				r.logger.Error().Err(err).Msg("Periodic history flush failed")
			}
			r.mu.Unlock()
		case <-r.shutdownChan:
			return
		}
	}
}

// flush writes buffered samples in one transaction. Callers hold r.mu.
func (r *repository) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	err := inTx(r.db, r.logger, ErrTransactionFailed, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(insertSampleSQL)
		if err != nil {
			return errors.New().Wrap(ErrTransactionFailed, err)
		}
		defer stmt.Close()

		for _, s := range r.buffer {
			if _, err := stmt.Exec(
				s.Timestamp.Unix(),
				s.QPS,
				s.BufferHit,
				s.Questions,
				s.Uptime,
				s.ThreadsConnected,
				s.ThreadsRunning,
			); err != nil {
				return errors.New().Wrap(ErrTransactionFailed, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug().Int("records", len(r.buffer)).Msg("Flushed history samples")
	r.buffer = r.buffer[:0]

	return nil
}
