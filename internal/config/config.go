package config

import (
	"time"

	"reviewscout/pkg/config"
)

// Config stores environment configuration for the scraper.
type Config struct {
	NavTimeout         time.Duration // per-navigation deadline for single-URL sources
	CapterraNavTimeout time.Duration // shorter deadline per Capterra URL variant
	MaxRounds          int           // hard cap on collection rounds
	RoundWait          time.Duration // settle time after each pagination action
	StableWait         time.Duration // DOM-stability window after navigation
	Headless           bool
}

// LoadConfig loads the scraper configuration from environment variables.
func LoadConfig() Config {
	return Config{
		NavTimeout:         config.GetEnvDuration("REVIEWSCOUT_NAV_TIMEOUT", 30*time.Second),
		CapterraNavTimeout: config.GetEnvDuration("REVIEWSCOUT_CAPTERRA_NAV_TIMEOUT", 20*time.Second),
		MaxRounds:          config.GetEnvInt("REVIEWSCOUT_MAX_ROUNDS", 40),
		RoundWait:          config.GetEnvDuration("REVIEWSCOUT_ROUND_WAIT", 800*time.Millisecond),
		StableWait:         config.GetEnvDuration("REVIEWSCOUT_STABLE_WAIT", 500*time.Millisecond),
		Headless:           config.GetEnvBool("REVIEWSCOUT_HEADLESS", true),
	}
}
