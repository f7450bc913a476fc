package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Config is read from the environment once at startup.
type Config struct {
	Addr             string
	Difficulty       int
	GenesisCreatorID int
	MiningTimeout    time.Duration
	MaxAttempts      uint64
	APIURL           string
}

// Load reads the PYCHAIN_* variables, falling back to defaults for unset ones.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:   getEnv("PYCHAIN_ADDR", ":9090"),
		APIURL: getEnv("PYCHAIN_API", "http://localhost:9090"),
	}

	var err error

	if cfg.Difficulty, err = getInt("PYCHAIN_DIFFICULTY", 2); err != nil {
		return nil, err
	}

	if cfg.GenesisCreatorID, err = getInt("PYCHAIN_GENESIS_CREATOR", 0); err != nil {
		return nil, err
	}

	if v := os.Getenv("PYCHAIN_MINING_TIMEOUT"); v != "" {
		if cfg.MiningTimeout, err = time.ParseDuration(v); err != nil {
			return nil, errors.Wrap(err, "invalid PYCHAIN_MINING_TIMEOUT")
		}
	}

	if v := os.Getenv("PYCHAIN_MAX_ATTEMPTS"); v != "" {
		if cfg.MaxAttempts, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, errors.Wrap(err, "invalid PYCHAIN_MAX_ATTEMPTS")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}

	return n, nil
}
