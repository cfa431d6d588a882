package config

import (
	"fmt"
	"strconv"
	"time"
)

// Defaults
const (
	DefaultStartYear    = 1965
	DefaultFetchTimeout = 30 * time.Second
	DefaultFetchRPS     = 2.0
)

// Config is the typed view of a ResolvedConfig.
type Config struct {
	Data         string
	Plates       string
	Map          string
	DBPath       string
	LogDir       string
	StartYear    int
	FetchTimeout time.Duration
	FetchRPS     float64
}

// Config parses the resolved strings. Errors name the offending key and
// where its value came from.
func (r ResolvedConfig) Config() (Config, error) {
	c := Config{
		Data:   r.Data.Value,
		Plates: r.Plates.Value,
		Map:    r.Map.Value,
		DBPath: r.DBPath.Value,
		LogDir: r.LogDir.Value,
	}

	year, err := strconv.Atoi(r.StartYear.Value)
	if err != nil {
		return c, invalid("start_year", r.StartYear, err)
	}
	c.StartYear = year

	timeout, err := time.ParseDuration(r.FetchTimeout.Value)
	if err != nil || timeout <= 0 {
		return c, invalid("fetch_timeout", r.FetchTimeout, err)
	}
	c.FetchTimeout = timeout

	rps, err := strconv.ParseFloat(r.FetchRPS.Value, 64)
	if err != nil || rps < 0 {
		return c, invalid("fetch_rps", r.FetchRPS, err)
	}
	c.FetchRPS = rps
	return c, nil
}

func invalid(key string, v ResolvedValue, err error) error {
	if err == nil {
		err = fmt.Errorf("out of range")
	}
	return fmt.Errorf("invalid %s %q (from %s %s): %w", key, v.Value, v.Source, v.From, err)
}
