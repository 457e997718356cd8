// Package config resolves run options from flags, environment variables
// and an optional configuration file.
package config

import (
	"os"
	"os/user"
	"strings"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/database"
	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/history"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "MYSQLSTATUS"
	DefaultHost      = "localhost"
	DefaultPort      = 3306
	DefaultInterval  = 1
	DefaultMode      = "status"
	DefaultFormat    = "text"
	DefaultLogFile   = "logs/debug.log"
	DefaultTimezone  = "Local"
	DefaultHistoryDB = "history.db"
)

type Config struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Interval       int    `mapstructure:"interval"`
	Outfile        string `mapstructure:"outfile"`
	NonInteractive bool   `mapstructure:"nonint"`
	Mode           string `mapstructure:"mode"`
	ExportConfig   string `mapstructure:"export-config"`
	Debug          bool   `mapstructure:"debug"`
	LogFile        string `mapstructure:"log-file"`
	Timezone       string `mapstructure:"timezone"`
	Count          int    `mapstructure:"count"`
	Format         string `mapstructure:"format"`
	History        bool   `mapstructure:"history"`
	HistoryDB      string `mapstructure:"history-db"`

	mode     model.Mode
	location *time.Location
}

// RegisterFlags defines every option on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("host", "H", DefaultHost, "MySQL host")
	fs.IntP("port", "p", DefaultPort, "MySQL port")
	fs.StringP("user", "u", currentUser(), "MySQL user")
	fs.StringP("password", "P", "", "MySQL password")
	fs.IntP("interval", "i", DefaultInterval, "Seconds between samples")
	fs.StringP("outfile", "o", "", "Write non-interactive output to this file instead of stdout")
	fs.BoolP("nonint", "n", false, "Non-interactive output")
	fs.StringP("mode", "m", DefaultMode, "Initial mode: status, process or global")
	fs.String("export-config", "", "Export snapshots to the remote store described by this file")
	fs.Bool("debug", false, "Enable debug logging")
	fs.String("log-file", DefaultLogFile, "Debug log file")
	fs.String("timezone", DefaultTimezone, "Timezone used for displayed times")
	fs.Int("count", 0, "Stop non-interactive output after this many dumps (0 is unlimited)")
	fs.String("format", DefaultFormat, "Non-interactive output format: text or json")
	fs.Bool("history", false, "Record status samples in a local database")
	fs.String("history-db", DefaultHistoryDB, "History database path")
	fs.String("config", "", "Configuration file (toml, yaml or json)")
}

// Load resolves the configuration. Flags set on the command line win over
// environment variables, which win over the configuration file.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	path := o.configPath
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the options and resolves the mode and timezone.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	mode, err := model.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	switch c.Format {
	case "text", "json":
	default:
		return errFactory.WithData(errors.ErrInvalidFormat, c.Format)
	}

	if c.Count < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value int
		}{
			Field: "count",
			Value: c.Count,
		})
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errFactory.Wrap(errors.ErrInvalidTimezone, err).WithData(c.Timezone)
	}

	if c.ExportConfig != "" && mode == model.ModeProcess {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "process mode cannot be exported")
	}

	if err := c.Database().Validate(); err != nil {
		return err
	}
	if err := c.HistoryConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	c.mode = mode
	c.location = loc

	return nil
}

// InitialMode is the validated --mode value.
func (c *Config) InitialMode() model.Mode {
	return c.mode
}

// Location is the validated --timezone value.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}

	return c.location
}

func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

func (c *Config) Database() database.Config {
	return database.Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
	}
}

func (c *Config) HistoryConfig() history.Config {
	cfg := history.DefaultConfig()
	cfg.Enabled = c.History
	cfg.DBPath = c.HistoryDB

	return cfg
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}

	return os.Getenv("USER")
}
