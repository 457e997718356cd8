package database

import (
	"net"
	"strconv"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
)

const defaultConnectTimeout = 10 * time.Second

type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	ConnectTimeout time.Duration
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Host == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value int
		}{
			Field: "port",
			Value: c.Port,
		})
	}

	return nil
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return defaultConnectTimeout
	}

	return c.ConnectTimeout
}
