// Package resolve builds the normalized entity tables from the
// sanitized record stream. Builders run in dependency order and each
// returns an immutable slice; deduplication is always first-seen in
// input order, so results are deterministic.
package resolve

import (
	"regexp"
	"strings"

	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

var (
	// Trailing qualifier such as "(Metropolitan Area)".
	parenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	// Two-letter uppercase state code.
	stateRe = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ParseCityName splits a raw city string into name and state.
// Policy, first match wins:
//  1. a comma splits name from state; the state part is accepted only
//     as a bare 2-letter uppercase code after qualifier removal
//  2. a string that is exactly 2 uppercase letters is a state-only
//     observation with no city name
//  3. otherwise the remainder, minus any trailing qualifier, is the
//     city name with no state
func ParseCityName(full string) (name, state string) {
	s := strings.TrimSpace(full)
	if i := strings.Index(s, ","); i >= 0 {
		name = strings.TrimSpace(parenRe.ReplaceAllString(s[:i], ""))
		rest := strings.TrimSpace(parenRe.ReplaceAllString(s[i+1:], ""))
		if stateRe.MatchString(rest) {
			state = rest
		}
		return name, state
	}
	if stateRe.MatchString(s) {
		return "", s
	}
	return strings.TrimSpace(parenRe.ReplaceAllString(s, "")), ""
}

// Cities extracts the deduplicated city table. Each record contributes
// two observations, origin side first; the first valid observation for
// a city-market id wins and later ones are discarded even if they are
// more complete.
func Cities(records []sanitize.Record) []tables.City {
	seen := make(map[int]bool)
	var out []tables.City

	add := func(id int, raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[id] {
			return
		}
		name, state := ParseCityName(raw)
		seen[id] = true
		out = append(out, tables.City{
			CityMarketID: id,
			CityName:     name,
			State:        state,
			FullCityName: raw,
		})
	}

	for _, rec := range records {
		add(rec.CityMarketID1, rec.City1)
		add(rec.CityMarketID2, rec.City2)
	}
	return out
}
