package config

// Option adjusts how Load reads configuration.
type Option func(*options)

type options struct {
	configPath string
	envPrefix  string
}

// WithConfigFile reads path in addition to flags and environment. It takes
// precedence over the --config flag.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithEnvPrefix replaces the default environment prefix, MYSQLSTATUS.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}
