package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
)

// backupDatabase copies the database next to dbPath before it is recreated.
func backupDatabase(db *sql.DB, dbPath string, version int, log logger.Logger) (string, error) {
	errFactory := errors.New()

	backupDir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(backupDir, defaultDirPerm); err != nil {
		return "", errFactory.Wrap(ErrSchemaMigrationFailed, err).WithData(backupDir)
	}

	timestamp := time.Now().UTC().Format("20060102T150405Z")
	backupPath := filepath.Join(backupDir,
		fmt.Sprintf("history_v%d_%s.db", version, timestamp))

	// VACUUM INTO requires no active transaction
	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		return "", errFactory.Wrap(ErrSchemaMigrationFailed, err).WithData(backupPath)
	}

	log.Info().
		Str("path", backupPath).
		Int("version", version).
		Msg("History database backup created")

	return backupPath, nil
}

// ValidateAndUpdateSchema creates the schema on a new database. An existing
// database at another version is backed up and recreated.
func ValidateAndUpdateSchema(db *sql.DB, dbPath string, log logger.Logger) error {
	errFactory := errors.New()

	version, err := GetSchemaVersion(db)
	if err != nil {
		return errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	if version == SchemaVersion {
		log.Debug().
			Int("version", version).
			Msg("History schema is current")
		return nil
	}

	if version != 0 {
		if _, err := backupDatabase(db, dbPath, version, log); err != nil {
			return err
		}
	}

	if err := dropTables(db, log); err != nil {
		return err
	}

	return InitSchema(db, log)
}

// historyTables lists every table owned by the schema, dependents first.
var historyTables = []string{"status_samples", "schema_versions"}

func dropTables(db *sql.DB, log logger.Logger) error {
	return inTx(db, log, ErrSchemaMigrationFailed, func(tx *sql.Tx) error {
		for _, table := range historyTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return stepError(ErrSchemaMigrationFailed, "drop_"+table, err)
			}
		}
		log.Debug().Strs("tables", historyTables).Msg("Dropped history tables")

		return nil
	})
}
