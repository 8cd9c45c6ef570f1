package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	// consoleTimeLayout keeps millisecond precision so bursts of moves on
	// the same lane still sort in the order they were applied.
	consoleTimeLayout = "2006-01-02 15:04:05.000"
	// jsonTimeLayout matches the timestamp format of the HTTP API.
	jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(consoleTimeLayout)
}

func formatJSONTimestamp(ts time.Time) string {
	return ts.UTC().Format(jsonTimeLayout)
}

// attrString renders v without quoting, for fields lifted into the
// console prefix (component, lane, client id).
func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() != slog.KindAny {
		if v.Kind() == slog.KindString {
			return v.String()
		}
		return formatValue(v)
	}
	return anyString(v.Any())
}

// formatValue renders v as the right-hand side of a console key=value pair.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		return quoteIfNeeded(anyString(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func anyString(value any) string {
	switch typed := value.(type) {
	case error:
		return typed.Error()
	case []string:
		return strings.Join(typed, ",")
	default:
		return fmt.Sprint(typed)
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	}) {
		return strconv.Quote(s)
	}
	return s
}
