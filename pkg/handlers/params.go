package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// listParam collects a multi-valued query parameter, accepting both repeated
// keys (?zone=a&zone=b) and comma-separated values (?zone=a,b). Blank values
// are dropped.
func listParam(query url.Values, key string) []string {
	var values []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// dateParam parses an optional YYYY-MM-DD query parameter.
// Returns nil when the parameter is absent, and ok=false when it is present
// but malformed.
func dateParam(query url.Values, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// floatParam parses an optional numeric query parameter.
// Returns nil when absent, ok=false when malformed.
func floatParam(query url.Values, key string) (*float64, bool) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}
