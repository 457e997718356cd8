package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stubDriverName = "mysqlstatus-stub"
	failingQuery   = "SHOW BROKEN STATUS"
)

func init() {
	sql.Register(stubDriverName, stubDriver{})
}

// stubDriver answers every query with one Variable_name/Value row and fails
// failingQuery.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if query == failingQuery {
		return nil, io.ErrUnexpectedEOF
	}

	return &stubRows{}, nil
}

type stubRows struct {
	done bool
}

func (*stubRows) Columns() []string { return []string{"Variable_name", "Value"} }
func (*stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = "Uptime"
	dest[1] = nil

	return nil
}

func openStub(t *testing.T) *Conn {
	t.Helper()

	db, err := sql.Open(stubDriverName, "")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	c := newConn(db)
	t.Cleanup(func() { c.Close() })

	return c
}

func TestQueryReleasesLockAfterFailure(t *testing.T) {
	c := openStub(t)

	done := make(chan []Row, 1)
	go func() {
		_, err := c.Query(context.Background(), failingQuery)
		assert.True(t, errors.HasCode(err, errors.ErrQuery))

		rows, err := c.Query(context.Background(), "SHOW GLOBAL STATUS")
		assert.NoError(t, err)
		done <- rows
	}()

	select {
	case rows := <-done:
		require.Len(t, rows, 1)
		assert.Equal(t, Row{"Variable_name": "Uptime", "Value": NullValue}, rows[0])
	case <-time.After(time.Second):
		t.Fatal("query after a failed query did not return")
	}
}

func TestCloseOnce(t *testing.T) {
	c := openStub(t)

	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	_, err := c.Query(context.Background(), "SHOW GLOBAL STATUS")
	assert.True(t, errors.HasCode(err, errors.ErrQuery))
}
