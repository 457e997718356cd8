package presenter

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/export"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/store"
	"github.com/google/uuid"
)

// Exporter indexes every published snapshot into the remote store, one
// index per dataset, mode and UTC day.
type Exporter struct {
	store  *store.Store
	client export.Store
	cfg    export.Config
	info   model.ServerInfo
	runID  string
	now    func() time.Time
	newID  func() string

	known map[string]struct{}
}

// NewExporter probes client and returns an exporter for it. The client is
// closed when construction fails.
func NewExporter(ctx context.Context, st *store.Store, client export.Store, cfg export.Config, info model.ServerInfo) (*Exporter, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		_ = client.Close()
		return nil, err
	}
	if st.Mode() == model.ModeProcess {
		_ = client.Close()
		return nil, errFactory.WithData(export.ErrUnsupportedMode, model.ModeProcess.String())
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, errFactory.Wrap(export.ErrProbe, err)
	}

	runID := uuid.NewString()
	logger.Debug().Str("run_id", runID).Str("dataset", cfg.Dataset).Msg("Remote store reachable")

	return &Exporter{
		store:  st,
		client: client,
		cfg:    cfg,
		info:   info,
		runID:  runID,
		now:    time.Now,
		newID:  uuid.NewString,
		known:  make(map[string]struct{}),
	}, nil
}

func (e *Exporter) Run(ctx context.Context) error {
	defer e.store.Stop()
	defer func() {
		if err := e.client.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close remote store client")
		}
	}()

	for {
		snap, ok := next(ctx, e.store)
		if !ok {
			return nil
		}

		if err := e.export(ctx, snap); err != nil {
			logger.Error().Err(err).Uint64("seq", snap.Seq).Msg("Failed to export snapshot")
		}
	}
}

func (e *Exporter) export(ctx context.Context, snap model.Snapshot) error {
	ts := e.now()

	doc, err := export.BuildDocument(snap, e.info, e.runID, ts)
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.New().Wrap(export.ErrEncode, err)
	}

	name := export.IndexName(e.cfg.Dataset, snap.Mode, ts)
	if err := e.ensureIndex(ctx, name, snap.Mode); err != nil {
		return err
	}

	if err := e.client.Index(ctx, name, e.newID(), body); err != nil {
		return errors.New().Wrap(export.ErrIndexDoc, err)
	}

	logger.Debug().Str("index", name).Uint64("seq", snap.Seq).Msg("Exported snapshot")

	return nil
}

// ensureIndex creates name with the mode's mapping the first time it is
// seen and it does not exist yet.
func (e *Exporter) ensureIndex(ctx context.Context, name string, mode model.Mode) error {
	if _, ok := e.known[name]; ok {
		return nil
	}

	exists, err := e.client.IndexExists(ctx, name)
	if err != nil {
		return errors.New().Wrap(export.ErrIndexExists, err)
	}

	if !exists {
		body, err := e.cfg.IndexBody(mode)
		if err != nil {
			return err
		}
		if err := e.client.CreateIndex(ctx, name, body); err != nil {
			return errors.New().Wrap(export.ErrCreateIndex, err)
		}
		logger.Info().Str("index", name).Msg("Created index")
	}

	e.known[name] = struct{}{}

	return nil
}
