package database

import (
	"context"
	"database/sql"
	"sync"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"github.com/go-sql-driver/mysql"
)

// NullValue is how SQL NULL appears in a Row.
const NullValue = "NULL"

// Row is one result row keyed by column label.
type Row map[string]string

// Querier executes text queries against the monitored instance.
type Querier interface {
	Query(ctx context.Context, query string) ([]Row, error)
	Close() error
}

// Conn is a single MySQL session. Queries are serialized.
type Conn struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Open connects to the server and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Conn, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Addr()
	dsn.Timeout = cfg.connectTimeout()
	dsn.AllowNativePasswords = true

	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrConnect, err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errFactory.WithData(errors.ErrConnect, struct {
			Addr  string
			Error string
		}{
			Addr:  dsn.Addr,
			Error: err.Error(),
		})
	}

	logger.Debug().
		Str("addr", dsn.Addr).
		Str("user", cfg.User).
		Msg("Connected to MySQL")

	return newConn(db), nil
}

func newConn(db *sql.DB) *Conn {
	return &Conn{db: db}
}

// Query runs query and returns all rows.
func (c *Conn) Query(ctx context.Context, query string) ([]Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrQuery, err).WithMessage("query failed: " + query)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrQuery, err).WithMessage("reading rows failed: " + query)
	}

	return result, nil
}

// Close closes the session. Only the first call has an effect.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		if err := c.db.Close(); err != nil {
			c.closeErr = errors.New().Wrap(errors.ErrShutdownFailed, err)
		}
		logger.Debug().Msg("MySQL connection closed")
	})

	return c.closeErr
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var result []Row
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			if values[i].Valid {
				row[name] = values[i].String
			} else {
				row[name] = NullValue
			}
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
