package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/vents/pkg/errors"
)

type valueKind uint8

const (
	kindNone valueKind = iota
	kindBool
	kindString
)

// Value is the outcome of a key resolution. The zero value means nothing was
// found; otherwise it holds either a boolean or the raw string as read.
type Value struct {
	kind valueKind
	b    bool
	s    string
}

// Coerce converts a raw source value: "true" and "false" in any case become
// booleans, any other non-empty string is kept unchanged, and the empty
// string is not found.
func Coerce(raw string) Value {
	if raw == "" {
		return Value{}
	}
	switch strings.ToLower(raw) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(raw)
}

// BoolValue returns a found boolean value
func BoolValue(b bool) Value {
	return Value{kind: kindBool, b: b}
}

// StringValue returns a found string value, or the zero Value for ""
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: kindString, s: s}
}

// Found reports whether any source produced the value
func (v Value) Found() bool {
	return v.kind != kindNone
}

// IsBool reports whether the value was coerced to a boolean
func (v Value) IsBool() bool {
	return v.kind == kindBool
}

// Bool returns the boolean and whether the value is one
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == kindBool
}

// BoolOr returns the boolean value, or def when the value is missing or a string
func (v Value) BoolOr(def bool) bool {
	if v.kind != kindBool {
		return def
	}
	return v.b
}

// ToBool parses the value as a flag. Besides booleans it accepts t, y, yes,
// on, 1 and f, n, no, off, 0 in any case. A missing value yields def; any
// other string is a validation error.
func (v Value) ToBool(def bool) (bool, error) {
	switch v.kind {
	case kindNone:
		return def, nil
	case kindBool:
		return v.b, nil
	}
	switch strings.ToLower(strings.TrimSpace(v.s)) {
	case "true", "t", "y", "yes", "on", "1":
		return true, nil
	case "false", "f", "n", "no", "off", "0":
		return false, nil
	}
	return def, errors.Newf(errors.ErrorTypeValidation, "value %q is not a boolean", v.s)
}

// String returns the raw string. Booleans render as "true" or "false",
// missing values as "".
func (v Value) String() string {
	switch v.kind {
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindString:
		return v.s
	default:
		return ""
	}
}

// StringOr returns the string form, or def when the value is missing
func (v Value) StringOr(def string) string {
	if v.kind == kindNone {
		return def
	}
	return v.String()
}

// Interface returns nil, a bool or a string
func (v Value) Interface() any {
	switch v.kind {
	case kindBool:
		return v.b
	case kindString:
		return v.s
	default:
		return nil
	}
}

// Int parses the value as a base-10 integer. A missing value yields def.
func (v Value) Int(def int) (int, error) {
	if v.kind == kindNone {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.String()))
	if err != nil {
		return def, errors.Wrap(err, errors.ErrorTypeValidation, "value is not an integer")
	}
	return n, nil
}

// Duration parses the value as a time.Duration, accepting a bare number as
// seconds. A missing value yields def.
func (v Value) Duration(def time.Duration) (time.Duration, error) {
	if v.kind == kindNone {
		return def, nil
	}
	raw := strings.TrimSpace(v.String())
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, errors.Wrap(err, errors.ErrorTypeValidation, "value is not a duration")
	}
	return d, nil
}

// Strings splits a comma separated value, or decodes it when it is a JSON
// array. Blank entries are dropped.
func (v Value) Strings() ([]string, error) {
	if v.kind != kindString {
		return nil, nil
	}
	raw := strings.TrimSpace(v.s)
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "value is not a JSON string array")
		}
		return out, nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// JSON decodes a JSON document value into target. A missing value leaves
// target untouched.
func (v Value) JSON(target any) error {
	if v.kind == kindNone {
		return nil
	}
	if err := json.Unmarshal([]byte(v.String()), target); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "value is not valid JSON")
	}
	return nil
}
