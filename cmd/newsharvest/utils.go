package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pevans/newsharvest/config"
	"github.com/sirupsen/logrus"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newLogger builds the stderr logger. --verbose wins over
// NEWSHARVEST_LOG_LEVEL; an unknown level falls back to info.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(getEnv("NEWSHARVEST_LOG_LEVEL", "info"))
	if err != nil {
		log.WithError(err).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return log
}

// parseDate accepts a calendar date (2006-01-02, UTC midnight) or a full
// RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want 2006-01-02 or RFC3339)", s)
	}
	return t, nil
}

// dateRange resolves the crawl window. The end defaults to now; the start
// defaults to since before the end.
func dateRange(from, to, since string, now time.Time) (time.Time, time.Time, error) {
	end := now
	if to != "" {
		t, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}

	var start time.Time
	if from != "" {
		t, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	} else {
		d, err := config.ParseDuration(since)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since: %w", err)
		}
		start = end.Add(-d)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("date range starts after it ends: %s > %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return start, end, nil
}
