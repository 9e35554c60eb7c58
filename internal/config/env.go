package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func intEnv(key string, def int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	return d, nil
}

func stringEnv(key, def string) string {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	return s
}

func boolEnv(key string) bool {
	s, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return s != "0" && s != ""
}

func Development() bool {
	return boolEnv("DEVELOPMENT")
}
