package presenter_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/export"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/presenter"
	"codeberg.org/mutker/mysqlstatus/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexedDoc struct {
	index string
	id    string
	doc   map[string]any
}

type fakeRemote struct {
	mu       sync.Mutex
	pingErr  error
	indexErr error
	existing map[string]bool
	checks   []string
	created  []string
	docs     []indexedDoc
	closed   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{existing: map[string]bool{}}
}

func (f *fakeRemote) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeRemote) IndexExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, name)

	return f.existing[name], nil
}

func (f *fakeRemote) CreateIndex(_ context.Context, name string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, name)
	f.existing[name] = true

	return nil
}

func (f *fakeRemote) Index(_ context.Context, name, id string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexErr != nil {
		return f.indexErr
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	f.docs = append(f.docs, indexedDoc{index: name, id: id, doc: doc})

	return nil
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++

	return nil
}

func (f *fakeRemote) docCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.docs)
}

var testInfo = model.ServerInfo{Hostname: "db1", Version: "8.0.36", BufferPoolSizeMB: 128}

// sequenceClock returns each time in turn, then repeats the last one.
func sequenceClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[i]
		if i < len(times)-1 {
			i++
		}

		return t
	}
}

func runExporter(t *testing.T, e *presenter.Exporter, st *store.Store, remote *fakeRemote, snaps ...model.Snapshot) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	for i, snap := range snaps {
		st.Publish(snap)
		want := i + 1
		require.Eventually(t, func() bool { return remote.docCount() >= want }, time.Second, 5*time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("exporter did not stop")
	}
}

func TestExporterCreatesIndexOncePerDay(t *testing.T) {
	st := store.New(model.ModeStatus)
	remote := newFakeRemote()
	e, err := presenter.NewExporter(context.Background(), st, remote, export.DefaultConfig(), testInfo)
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 1, 23, 59, 58, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC)
	presenter.SetExporterClock(e, sequenceClock(day1, day1, day2))

	runExporter(t, e, st, remote, statusSnap("1"), statusSnap("2"), statusSnap("3"))

	assert.Equal(t, []string{"mysql-status-20240301", "mysql-status-20240302"}, remote.created)
	assert.Equal(t, []string{"mysql-status-20240301", "mysql-status-20240302"}, remote.checks)
	require.Len(t, remote.docs, 3)
	assert.Equal(t, "mysql-status-20240301", remote.docs[1].index)
	assert.Equal(t, "mysql-status-20240302", remote.docs[2].index)
	assert.NotEqual(t, remote.docs[0].id, remote.docs[1].id)
	assert.Equal(t, 1, remote.closed)
	assert.True(t, st.Stopped())
}

func TestExporterDocumentFields(t *testing.T) {
	st := store.New(model.ModeGlobal)
	remote := newFakeRemote()
	remote.existing["mysql-global-20240301"] = true
	e, err := presenter.NewExporter(context.Background(), st, remote, export.DefaultConfig(), testInfo)
	require.NoError(t, err)
	presenter.SetExporterClock(e, sequenceClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))

	g := model.NewGlobalMetrics()
	g.Set("Session num(ea)", "4")
	g.Set("Replication(ea)", "0")
	runExporter(t, e, st, remote,
		model.Snapshot{Mode: model.ModeGlobal, Global: g},
		model.Snapshot{Mode: model.ModeGlobal, Global: g},
	)

	assert.Empty(t, remote.created, "existing index must not be recreated")
	require.Len(t, remote.docs, 2)
	doc := remote.docs[0].doc
	assert.Equal(t, "db1", doc["host"])
	assert.Equal(t, "8.0.36", doc["version"])
	assert.Equal(t, "2024-03-01T08:00:00Z", doc["@timestamp"])
	assert.InDelta(t, 4, doc["Session num(ea)"], 0)
	assert.NotEmpty(t, doc["run_id"])
	assert.Equal(t, doc["run_id"], remote.docs[1].doc["run_id"])
}

func TestExporterProbeFailure(t *testing.T) {
	st := store.New(model.ModeStatus)
	remote := newFakeRemote()
	remote.pingErr = assert.AnError

	_, err := presenter.NewExporter(context.Background(), st, remote, export.DefaultConfig(), testInfo)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, export.ErrProbe))
	assert.Equal(t, 1, remote.closed)
}

func TestExporterRejectsProcessMode(t *testing.T) {
	st := store.New(model.ModeProcess)
	remote := newFakeRemote()

	_, err := presenter.NewExporter(context.Background(), st, remote, export.DefaultConfig(), testInfo)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, export.ErrUnsupportedMode))
}

func TestExporterSkipsFailedDocuments(t *testing.T) {
	st := store.New(model.ModeStatus)
	remote := newFakeRemote()
	remote.indexErr = assert.AnError
	e, err := presenter.NewExporter(context.Background(), st, remote, export.DefaultConfig(), testInfo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	st.Publish(statusSnap("1"))
	require.Eventually(t, func() bool { return !st.Dirty() }, time.Second, 5*time.Millisecond)
	st.Publish(statusSnap("2"))
	require.Eventually(t, func() bool { return !st.Dirty() }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, remote.created, 1)
}
