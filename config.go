// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ccmsg

import "log/slog"

type Config struct {
	logger *slog.Logger
}

type Option func(c *Config) error

// WithLogger sets the logger used for parser debugging.
// A nil logger silences the parser.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}
