package clientconfig

import (
	"time"

	"github.com/pkg/errors"
)

// Duration wraps time.Duration so it can be written as "30s" or "5m" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	raw := string(text)
	if raw == "" {
		d.Duration = 0
		return nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", raw)
	}
	if parsed < 0 {
		return errors.Errorf("negative duration %q not allowed", raw)
	}

	d.Duration = parsed
	return nil
}

// MarshalText writes the duration back as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
