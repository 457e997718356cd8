package export

import (
	"os"
	"regexp"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"github.com/spf13/viper"
)

const (
	defaultDataset = "mysql"
	defaultAddress = "https://localhost:9200"
)

var datasetPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Config describes the remote index store and how documents are indexed.
type Config struct {
	Addresses          []string          `mapstructure:"addresses"`
	Username           string            `mapstructure:"username"`
	Password           string            `mapstructure:"password"`
	APIKey             string            `mapstructure:"api_key"`
	CACert             string            `mapstructure:"ca_cert"`
	InsecureSkipVerify bool              `mapstructure:"insecure_skip_verify"`
	Dataset            string            `mapstructure:"dataset"`
	FieldLimit         int               `mapstructure:"field_limit"`
	Mappings           map[string]string `mapstructure:"mappings"`
}

func DefaultConfig() Config {
	return Config{
		Addresses: []string{defaultAddress},
		Dataset:   defaultDataset,
	}
}

// LoadConfig reads an export configuration file. The format follows the
// file extension (yaml, json, toml).
func LoadConfig(path string) (Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("addresses", []string{defaultAddress})
	v.SetDefault("dataset", defaultDataset)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errFactory.Wrap(ErrReadConfig, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errFactory.Wrap(ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if len(c.Addresses) == 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "at least one address is required")
	}
	if !datasetPattern.MatchString(c.Dataset) {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value string
		}{
			Field: "dataset",
			Value: c.Dataset,
		})
	}
	if c.FieldLimit < 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value int
		}{
			Field: "field_limit",
			Value: c.FieldLimit,
		})
	}
	for name := range c.Mappings {
		mode, err := model.ParseMode(name)
		if err != nil {
			return errFactory.Wrap(ErrInvalidConfig, err)
		}
		if mode == model.ModeProcess {
			return errFactory.New(ErrUnsupportedMode).WithData(name)
		}
	}

	return nil
}

func (c Config) caCert() ([]byte, error) {
	if c.CACert == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(c.CACert)
	if err != nil {
		return nil, errors.New().Wrap(ErrReadConfig, err)
	}

	return pem, nil
}
