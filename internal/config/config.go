package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// SendTimeout bounds one delivery attempt to one peer during fan-out.
	SendTimeout time.Duration `mapstructure:"send_timeout" yaml:"send_timeout"`
	// InboundPerMinute caps frames accepted per connection per minute;
	// zero disables the limit.
	InboundPerMinute int `mapstructure:"inbound_per_minute" yaml:"inbound_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		SendTimeout:       10 * time.Second,
	}
}
