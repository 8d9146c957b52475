package util

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// QueryString gets a trimmed querystring value, or the fallback if it is empty
func QueryString(r *http.Request, name string, fallback string) string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return fallback
	}

	return value
}

// QueryLimit parses a limit querystring value,
// using the default for missing or invalid values and clamping it to the max
func QueryLimit(r *http.Request, name string, defaultLimit int, maxLimit int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return min(defaultLimit, maxLimit)
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		log.Warn().Str("param", name).Str("value", raw).Int("default", defaultLimit).
			Msg("invalid query parameter, using default")
		return min(defaultLimit, maxLimit)
	}

	if limit > maxLimit {
		log.Debug().Str("param", name).Int("value", limit).Int("max", maxLimit).
			Msg("query parameter exceeds max, clamping")
		return maxLimit
	}

	return limit
}

// QueryList splits a comma-separated querystring value into its trimmed, non-empty parts,
// returning the fallback when nothing remains
func QueryList(r *http.Request, name string, fallback []string) []string {
	raw := r.URL.Query().Get(name)
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}

	return values
}
