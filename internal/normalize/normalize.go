// Package normalize cleans the raw text and numeric cells coming out of
// equipment export files before they touch the database. Unparseable input is
// never an error here: it becomes nil and is handled downstream as a
// data-quality gap.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// CleanText trims the value; nil-ish input becomes "".
func CleanText(value string) string {
	return strings.TrimSpace(value)
}

// ParseDecimal parses a numeric cell, tolerating thousands separators and
// surrounding whitespace. Returns nil for empty or unparseable input.
func ParseDecimal(value string) *float64 {
	s := strings.ReplaceAll(CleanText(value), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInteger is ParseDecimal truncated to an int, so "2024.0" still reads
// as a usable crop year.
func ParseInteger(value string) *int {
	f := ParseDecimal(value)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// ParseDate parses a date cell against the layouts the exports are known to
// use. Returns nil when nothing matches.
func ParseDate(value string) *time.Time {
	s := CleanText(value)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeCode reduces a free-form code to its canonical form: uppercase
// with everything outside [A-Z0-9] dropped. "bin-13", "Bin_13" and " BIN 13 "
// all come out as "BIN13".
func NormalizeCode(value string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
