package scheduler

import "time"

// Config controls the run loop and per-job settings.
type Config struct {
	RunInterval     time.Duration
	JobTimeout      time.Duration
	ErrlogRetention time.Duration
	EnabledJobs     []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:     5 * time.Minute,
		JobTimeout:      30 * time.Second,
		ErrlogRetention: 90 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.ErrlogRetention <= 0 {
		c.ErrlogRetention = defaults.ErrlogRetention
	}
	return c
}
