// Package env reads typed values from environment variables with defaults.
// Unparseable values fall back to the default.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Str returns the variable or d when it is unset or empty.
func Str(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Bool accepts 1/true/yes/on and 0/false/no/off in any case.
func Bool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

// Int parses a base-10 integer.
func Int(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

// Float parses a float64.
func Float(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

// Duration parses a time.ParseDuration string such as "30s" or "168h".
func Duration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

// List splits a comma separated variable, trimming blanks.
func List(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
