package sampler

import (
	"context"
	"strconv"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/database"
	"codeberg.org/mutker/mysqlstatus/internal/history"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/store"
)

const (
	defaultInterval    = time.Second
	legacyReplicaQuery = "SHOW SLAVE STATUS"
)

type Options struct {
	// Interval between polls. Defaults to one second.
	Interval time.Duration
	// Recorder receives every status sample. Optional.
	Recorder history.Collector
}

// Sampler polls the server for the store's current mode and publishes the
// results. It owns the connection and closes it when Run returns.
type Sampler struct {
	db       database.Querier
	store    *store.Store
	interval time.Duration
	recorder history.Collector
	now      func() time.Time

	current  *model.StatusSnapshot
	previous *model.StatusSnapshot
}

func New(db database.Querier, st *store.Store, opts Options) *Sampler {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = history.Noop()
	}

	return &Sampler{
		db:       db,
		store:    st,
		interval: interval,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run polls until the store is stopped or ctx is cancelled. A poll that is
// already running is allowed to finish.
func (s *Sampler) Run(ctx context.Context) error {
	defer s.close()

	queryCtx := context.WithoutCancel(ctx)

	logger.Debug().Dur("interval", s.interval).Msg("Sampler started")

	for !s.store.Stopped() && ctx.Err() == nil {
		s.Poll(queryCtx)

		select {
		case <-time.After(s.interval):
		case <-s.store.Done():
		case <-ctx.Done():
		}
	}

	logger.Debug().Msg("Sampler stopped")

	return nil
}

// Poll runs one cycle for the current mode and publishes the result.
func (s *Sampler) Poll(ctx context.Context) model.Snapshot {
	mode := s.store.Mode()
	snap := model.Snapshot{Mode: mode}

	switch mode {
	case model.ModeProcess:
		snap.Processes = s.pollProcesses(ctx)
	case model.ModeStatus:
		snap.Status = s.pollStatus(ctx)
	default:
		snap.Mode = model.ModeGlobal
		snap.Global = s.pollGlobal(ctx)
	}

	s.store.Publish(snap)

	return snap
}

func (s *Sampler) pollStatus(ctx context.Context) *model.StatusSnapshot {
	if s.current != nil {
		s.previous = s.current
	}

	rows := s.query(ctx, statusQuery)
	cur := &model.StatusSnapshot{
		Values:  variablesToMap(rows),
		TakenAt: s.now(),
	}
	s.current = cur

	qps, bufferHit := Derive(cur, s.previous)

	if err := s.recorder.Record(ctx, history.NewSample(cur, qps, bufferHit)); err != nil {
		logger.Warn().Err(err).Msg("Failed to record status sample")
	}

	return cur
}

func (s *Sampler) pollProcesses(ctx context.Context) model.ProcessList {
	rows := s.query(ctx, processQuery)

	list := make(model.ProcessList, 0, len(rows))
	for _, row := range rows {
		elapsed, err := strconv.ParseInt(row["TIME"], 10, 64)
		if err != nil {
			elapsed = 0
		}
		list = append(list, model.ProcessRecord{
			ID:    row["ID"],
			Host:  row["HOST"],
			DB:    row["DB"],
			Time:  elapsed,
			State: row["STATE"],
			Info:  row["INFO"],
		})
	}

	logger.Debug().Int("processes", len(list)).Msg("Process list polled")

	return list
}

func (s *Sampler) pollGlobal(ctx context.Context) *model.GlobalMetrics {
	metrics := model.NewGlobalMetrics()

	for _, q := range globalQueries {
		rows := s.query(ctx, q)
		if len(rows) == 0 {
			continue
		}
		for name, value := range rows[0] {
			metrics.Set(name, value)
		}
	}

	rows, err := s.db.Query(ctx, replicaQuery)
	if err != nil {
		rows, err = s.db.Query(ctx, legacyReplicaQuery)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count replicas")
	}
	metrics.Set(replicationKey, strconv.Itoa(len(rows)))

	return metrics
}

// query runs q and treats a failure as an empty result.
func (s *Sampler) query(ctx context.Context, q string) []database.Row {
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		logger.Warn().Err(err).Str("query", q).Msg("Query failed")
		return nil
	}

	return rows
}

func (s *Sampler) close() {
	if err := s.db.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close MySQL connection")
	}
}

// variablesToMap converts SHOW VARIABLES / SHOW STATUS rows to a mapping.
func variablesToMap(rows []database.Row) map[string]string {
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row["Variable_name"]] = row["Value"]
	}

	return values
}
