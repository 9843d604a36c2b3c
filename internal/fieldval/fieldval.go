// Package fieldval coerces raw payload values (decoded JSON: strings,
// numbers, bools, lists, nulls) into canonical stored values. Every parser
// fails with a field-qualified apperr.ValidationError; none of them panic on
// unexpected dynamic types.
package fieldval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

// NormalizeText trims v and returns nil for null or empty input.
func NormalizeText(v any) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// RequireText is NormalizeText that fails when nothing remains.
func RequireText(v any, field string) (string, error) {
	if s := NormalizeText(v); s != nil {
		return *s, nil
	}
	return "", apperr.Required(field)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate coerces v to a UTC timestamp. Null and empty string yield nil
// when allowNull is set and a validation error otherwise. Accepted inputs:
// time.Time, RFC3339/date strings, and numeric epoch milliseconds.
func ParseDate(v any, field string, allowNull bool) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nullOrRequired[time.Time](field, allowNull)
	case time.Time:
		u := t.UTC()
		return &u, nil
	case *time.Time:
		if t == nil {
			return nullOrRequired[time.Time](field, allowNull)
		}
		u := t.UTC()
		return &u, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nullOrRequired[time.Time](field, allowNull)
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				u := parsed.UTC()
				return &u, nil
			}
		}
		return nil, apperr.Invalid(field, "must be a valid date.")
	default:
		if ms, ok := asFloat(v); ok {
			u := time.UnixMilli(int64(ms)).UTC()
			return &u, nil
		}
		return nil, apperr.Invalid(field, "must be a valid date.")
	}
}

// ParseNumber coerces v to a float64 with the same null contract as ParseDate.
func ParseNumber(v any, field string, allowNull bool) (*float64, error) {
	if isNullish(v) {
		return nullOrRequired[float64](field, allowNull)
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, apperr.Invalid(field, "must be a number.")
	}
	return &f, nil
}

// ParseInteger is ParseNumber that additionally rejects fractional values.
func ParseInteger(v any, field string, allowNull bool) (*int64, error) {
	f, err := ParseNumber(v, field, allowNull)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, apperr.Invalid(field, "must be an integer.")
	}
	n := int64(*f)
	return &n, nil
}

// ParsePercent coerces v to a number and clamps it to [0, 100]. Out-of-range
// input is clamped rather than rejected; this leniency is deliberate.
func ParsePercent(v any, field string, allowNull bool) (*float64, error) {
	f, err := ParseNumber(v, field, allowNull)
	if err != nil || f == nil {
		return nil, err
	}
	switch {
	case *f <= 0:
		*f = 0
	case *f >= 100:
		*f = 100
	}
	return f, nil
}

// StringList accepts a list, a newline- or comma-delimited string, or null,
// and always returns a list with blank entries removed.
func StringList(v any) []string {
	out := []string{}
	appendItem := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			out = append(out, raw)
		}
	}
	switch list := v.(type) {
	case nil:
	case []string:
		for _, item := range list {
			appendItem(item)
		}
	case []any:
		for _, item := range list {
			if s, ok := asString(item); ok {
				appendItem(s)
			} else if item != nil {
				appendItem(fmt.Sprint(item))
			}
		}
	case string:
		sep := "\n"
		if !strings.Contains(list, "\n") {
			sep = ","
		}
		for _, item := range strings.Split(list, sep) {
			appendItem(item)
		}
	}
	return out
}

// ParseBool accepts bools, numbers (0 is false), and common string tokens.
// Unrecognized input falls back to def.
func ParseBool(v any, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "y", "on":
			return true
		case "false", "0", "no", "n", "off":
			return false
		}
		return def
	default:
		if f, ok := asFloat(v); ok {
			return f != 0
		}
		return def
	}
}

// DurationMinutes derives whole minutes between start and end, floored at
// zero. Either endpoint missing yields nil.
func DurationMinutes(start, end *time.Time) *int64 {
	if start == nil || end == nil {
		return nil
	}
	minutes := int64(math.Round(end.Sub(*start).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}

func nullOrRequired[T any](field string, allowNull bool) (*T, error) {
	if allowNull {
		return nil, nil
	}
	return nil, apperr.Required(field)
}

func isNullish(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
