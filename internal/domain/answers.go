package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answers maps a field key to its stored value. A missing key (or a nil
// value) means unanswered.
//
// Canonical value shapes: string for text and single choice, []string for
// checkbox sets in selection order, map[string]string for matrix rows and
// float64 for slider halves.
type Answers map[string]any

// Derived key helpers.

func BeforeKey(questionID string) string { return questionID + "_before" }

func NowKey(questionID string) string { return questionID + "_now" }

func OtherKey(questionID string) string { return questionID + "_other" }

func OptionTextKey(questionID, value string) string {
	return questionID + "_" + value + "_text"
}

// Lookup returns the stored value, treating nil as absent.
func (a Answers) Lookup(key string) (any, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key holds a non-nil value. Zero and empty values count.
func (a Answers) Has(key string) bool {
	_, ok := a.Lookup(key)
	return ok
}

// String returns the value rendered as text, or "" when absent.
func (a Answers) String(key string) string {
	v, ok := a.Lookup(key)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Strings returns the value as a selection list. ok is false when the stored
// value is absent or not a list.
func (a Answers) Strings(key string) ([]string, bool) {
	v, ok := a.Lookup(key)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, FormatValue(item))
		}
		return out, true
	}
	return nil, false
}

// Rows returns the value as a matrix row map; anything else reads as empty.
func (a Answers) Rows(key string) map[string]string {
	v, ok := a.Lookup(key)
	if !ok {
		return map[string]string{}
	}
	switch rows := v.(type) {
	case map[string]string:
		return rows
	case map[string]any:
		out := make(map[string]string, len(rows))
		for k, item := range rows {
			if item == nil {
				continue
			}
			out[k] = FormatValue(item)
		}
		return out
	}
	return map[string]string{}
}

// Truthy mirrors the "has a usable answer" check used for free-text
// attachments and sub-questions: absent, empty string, zero and false are
// all unusable.
func (a Answers) Truthy(key string) bool {
	v, ok := a.Lookup(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	}
	return true
}

// Clone returns a deep copy safe to hand to another goroutine.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		switch t := v.(type) {
		case []string:
			out[k] = append([]string(nil), t...)
		case map[string]string:
			rows := make(map[string]string, len(t))
			for rk, rv := range t {
				rows[rk] = rv
			}
			out[k] = rows
		default:
			out[k] = v
		}
	}
	return out
}

// NormalizeValue converts a JSON-decoded value into its canonical shape.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, FormatValue(item))
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, item := range t {
			if item == nil {
				continue
			}
			out[k] = FormatValue(item)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}
	return v
}

// NormalizeAnswers normalizes every value of a decoded snapshot in place.
func NormalizeAnswers(a Answers) Answers {
	for k, v := range a {
		if v == nil {
			delete(a, k)
			continue
		}
		a[k] = NormalizeValue(v)
	}
	return a
}

// FormatValue renders a stored value the way it appears in a sheet cell.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
