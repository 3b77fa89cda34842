package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration with support for "d" (days) and "w"
// (weeks) suffixes, which time.ParseDuration does not accept.
type Duration struct {
	time.Duration
}

var longSuffixes = map[byte]time.Duration{
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

// EnvDecode implements envconfig.Decoder.
func (d *Duration) EnvDecode(_ context.Context, v string) error {
	if v == "" {
		return nil
	}

	if unit, ok := longSuffixes[v[len(v)-1]]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v[:len(v)-1]))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = time.Duration(n) * unit
		return nil
	}

	duration, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", v, err)
	}
	d.Duration = duration
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.EnvDecode(context.Background(), string(text))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d Duration) String() string {
	return d.Duration.String()
}
