package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats accepted from the web surface, in order of
// preference. The legacy UI submitted both ISO and dd/mm/yyyy dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses a user-supplied date string. An empty value falls back
// to the provided default.
func ParseDate(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", value)
}
