package sampler_test

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/mysqlstatus/internal/database"
)

// fakeDB answers queries from a canned table. Unknown queries fail.
type fakeDB struct {
	mu      sync.Mutex
	results map[string][]database.Row
	failing map[string]bool
	queries []string
	closed  int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		results: make(map[string][]database.Row),
		failing: make(map[string]bool),
	}
}

func (f *fakeDB) set(query string, rows ...database.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = rows
}

func (f *fakeDB) fail(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[query] = true
}

func (f *fakeDB) Query(_ context.Context, query string) ([]database.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	if f.failing[query] {
		return nil, fmt.Errorf("query failed: %s", query)
	}
	rows, ok := f.results[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}

	return rows, nil
}

func (f *fakeDB) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeDB) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func statusRows(kv ...string) []database.Row {
	rows := make([]database.Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		rows = append(rows, database.Row{"Variable_name": kv[i], "Value": kv[i+1]})
	}
	return rows
}
