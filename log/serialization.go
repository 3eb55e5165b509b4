package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// logAttr is a single slog attribute rendered for the proxy log.
type logAttr struct {
	Key   string
	Type  string // "string", "int64", "bool", "float64", "time", "error", "json", "any"
	Value string
}

// flattenAttr renders attr, expanding groups into dotted keys.
func flattenAttr(prefix string, attr slog.Attr) []logAttr {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = prefix + attr.Key + "."
		}
		out := make([]logAttr, 0, len(group))
		for _, a := range group {
			out = append(out, flattenAttr(groupPrefix, a)...)
		}
		return out
	}
	if attr.Equal(slog.Attr{}) {
		return nil
	}
	a := toLogAttr(attr)
	a.Key = prefix + a.Key
	return []logAttr{a}
}

// toLogAttr converts a slog.Attr to logAttr.
func toLogAttr(attr slog.Attr) logAttr {
	out := logAttr{
		Key: attr.Key,
	}
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		out.Type = "string"
		out.Value = attr.Value.String()
	case slog.KindInt64:
		out.Type = "int64"
		out.Value = fmt.Sprintf("%d", attr.Value.Int64())
	case slog.KindUint64:
		out.Type = "uint64"
		out.Value = fmt.Sprintf("%d", attr.Value.Uint64())
	case slog.KindBool:
		out.Type = "bool"
		out.Value = fmt.Sprintf("%t", attr.Value.Bool())
	case slog.KindFloat64:
		out.Type = "float64"
		out.Value = fmt.Sprintf("%f", attr.Value.Float64())
	case slog.KindTime:
		out.Type = "time"
		out.Value = attr.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		out.Type = "duration"
		out.Value = attr.Value.Duration().String()
	case slog.KindAny:
		if v := attr.Value.Any(); v != nil {
			if err, isErr := v.(error); isErr {
				out.Type = "error"
				out.Value = err.Error()
			} else if s, isStringer := v.(fmt.Stringer); isStringer {
				out.Type = "string"
				out.Value = s.String()
			} else if data, marshalErr := json.Marshal(v); marshalErr == nil {
				out.Type = "json"
				out.Value = string(data)
			} else {
				out.Type = "any"
				out.Value = fmt.Sprintf("%v", v)
			}
		} else {
			out.Type = "any"
			out.Value = "<nil>"
		}
	default:
		out.Type = "any"
		out.Value = fmt.Sprintf("%v", attr.Value.Any())
	}
	return out
}
