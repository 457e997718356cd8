package history

import (
	"database/sql"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS status_samples (
	       timestamp         INTEGER NOT NULL,
	       qps               REAL NOT NULL,
	       buffer_hit        REAL NOT NULL,
	       questions         INTEGER NOT NULL CHECK (typeof(questions) = 'integer'),
	       uptime            INTEGER NOT NULL CHECK (typeof(uptime) = 'integer'),
	       threads_connected INTEGER NOT NULL CHECK (typeof(threads_connected) = 'integer'),
	       threads_running   INTEGER NOT NULL CHECK (typeof(threads_running) = 'integer')
	   );
	   CREATE INDEX IF NOT EXISTS status_samples_timestamp ON status_samples (timestamp);`

	insertSampleSQL = `
    INSERT INTO status_samples (
        timestamp, qps, buffer_hit,
        questions, uptime,
        threads_connected, threads_running
    ) VALUES (?, ?, ?, ?, ?, ?, ?)`

	recordVersionSQL = `INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`

	latestVersionSQL = `SELECT version FROM schema_versions ORDER BY version DESC LIMIT 1`

	tableExistsSQL = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`

	recentSamplesSQL = `
    SELECT timestamp, qps, buffer_hit, questions, uptime, threads_connected, threads_running
    FROM status_samples
    ORDER BY timestamp DESC, rowid DESC
    LIMIT ?`
)

// InitSchema creates the schema at the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	err := inTx(db, log, ErrSchemaInitFailed, func(tx *sql.Tx) error {
		if _, err := tx.Exec(createTablesSQL); err != nil {
			return stepError(ErrSchemaInitFailed, "create_tables", err)
		}
		if _, err := tx.Exec(recordVersionSQL, SchemaVersion); err != nil {
			return stepError(ErrSchemaInitFailed, "record_version", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("version", SchemaVersion).
		Msg("History schema initialized")

	return nil
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func inTx(db *sql.DB, log logger.Logger, code errors.ErrorCode, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.New().Wrap(code, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Debug().Err(rbErr).Msg("Failed to roll back history transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New().Wrap(code, err)
	}

	return nil
}

func stepError(code errors.ErrorCode, phase string, err error) error {
	return errors.New().WithData(code, struct {
		Phase string
		Error string
	}{
		Phase: phase,
		Error: err.Error(),
	})
}

// GetSchemaVersion returns the stored schema version, 0 for a new database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(latestVersionSQL).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	return version, nil
}

func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(tableExistsSQL, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, struct {
			Table string
			Error string
		}{
			Table: tableName,
			Error: err.Error(),
		})
	}

	return exists, nil
}
