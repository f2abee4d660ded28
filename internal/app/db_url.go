package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills lib/pq connection options that the URL leaves unset:
// application_name for pg_stat_activity and binary_parameters when enabled.
// Key/value DSNs are returned unchanged.
func normalizeDBURL(raw, applicationName string, binaryParameters bool) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	if applicationName != "" && query.Get("application_name") == "" {
		query.Set("application_name", applicationName)
		changed = true
	}
	if binaryParameters && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
		changed = true
	}
	if !changed {
		return raw
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
				return name
			}
		}
	}
	return ""
}
