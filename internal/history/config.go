package history

import "codeberg.org/mutker/mysqlstatus/internal/errors"

const (
	defaultDirPerm      = 0o755
	defaultDBPath       = "history.db"
	defaultBatchSize    = 10
	defaultBatchTimeout = 5
)

type Config struct {
	DBPath  string
	Enabled bool
	// BatchSize is the number of samples buffered before a write.
	BatchSize int
	// BatchTimeout is the maximum number of seconds a sample stays buffered.
	BatchTimeout int
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		Enabled:      false,
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 || c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			BatchSize    int
			BatchTimeout int
		}{
			BatchSize:    c.BatchSize,
			BatchTimeout: c.BatchTimeout,
		})
	}

	return nil
}
