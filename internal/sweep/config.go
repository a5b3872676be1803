package sweep

import "time"

// Config controls the overdue/reminder sweep loop.
type Config struct {
	Enabled          bool
	BatchSize        int
	PollInterval     time.Duration
	ReminderLeadDays int
}

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		BatchSize:        200,
		PollInterval:     1 * time.Hour,
		ReminderLeadDays: 2,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.ReminderLeadDays <= 0 {
		c.ReminderLeadDays = defaults.ReminderLeadDays
	}
	return c
}
