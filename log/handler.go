// Package log provides structured logging (slog) routed to the proxy's log.
package log

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// Extra slog levels matching the proxy's trace and critical levels.
const (
	LevelTrace    = slog.LevelDebug - 4
	LevelCritical = slog.LevelError + 4
)

// ProxyLogHandler implements slog.Handler to route logs through proxy_log.
type ProxyLogHandler struct {
	emit   func(level slog.Level, msg string)
	prefix string
	attrs  []logAttr
	opts   handlerConfig
}

// HandlerOption configures the ProxyLogHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	emit      func(level slog.Level, msg string)
	level     slog.Leveler
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
		emit:  emitToProxy,
	}
}

// WithLevel sets the minimum log level to report.
// Records below this level are dropped before crossing the ABI.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithEmitter replaces the function that writes formatted records.
func WithEmitter(emit func(level slog.Level, msg string)) HandlerOption {
	return func(c *handlerConfig) {
		c.emit = emit
	}
}

// NewHandler creates a new ProxyLogHandler with the given options.
func NewHandler(opts ...HandlerOption) *ProxyLogHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ProxyLogHandler{opts: cfg, emit: cfg.emit}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ProxyLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle formats a record and writes it to the proxy log.
func (h *ProxyLogHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := make([]logAttr, 0, len(h.attrs)+record.NumAttrs()+3)

	if inst := wasmcontext.FromContext(ctx); inst.ID != 0 {
		attrs = append(attrs, logAttr{Key: "instance", Type: "uint64", Value: inst.ID.String()})
		if inst.Extension != "" {
			attrs = append(attrs, logAttr{Key: "extension", Type: "string", Value: inst.Extension})
		}
	}
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, flattenAttr(h.prefix, attr)...)
		return true
	})
	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		attrs = append(attrs, logAttr{
			Key:   slog.SourceKey,
			Type:  "string",
			Value: frame.File + ":" + strconv.Itoa(frame.Line),
		})
	}

	h.emit(record.Level, formatRecord(record.Message, attrs))
	return nil
}

// WithAttrs returns a new ProxyLogHandler that includes the given attributes.
func (h *ProxyLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandler := *h
	newHandler.attrs = make([]logAttr, 0, len(h.attrs)+len(attrs))
	newHandler.attrs = append(newHandler.attrs, h.attrs...)
	for _, attr := range attrs {
		newHandler.attrs = append(newHandler.attrs, flattenAttr(h.prefix, attr)...)
	}
	return &newHandler
}

// WithGroup returns a new ProxyLogHandler that qualifies later attributes with name.
func (h *ProxyLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.prefix = h.prefix + name + "."
	return &newHandler
}

// emitToProxy writes to the proxy log. Outside of a proxy (unit tests,
// tooling) the bindings have no host and panic; records then go to stderr.
func emitToProxy(level slog.Level, msg string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[HOST-STUB] Level=%s Msg=%q\n", level, msg)
		}
	}()

	switch {
	case level < slog.LevelDebug:
		proxywasm.LogTrace(msg)
	case level < slog.LevelInfo:
		proxywasm.LogDebug(msg)
	case level < slog.LevelWarn:
		proxywasm.LogInfo(msg)
	case level < slog.LevelError:
		proxywasm.LogWarn(msg)
	case level < LevelCritical:
		proxywasm.LogError(msg)
	default:
		proxywasm.LogCritical(msg)
	}
}

func formatRecord(msg string, attrs []logAttr) string {
	if len(attrs) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		if a.Type == "string" || a.Type == "error" {
			b.WriteString(quoteIfNeeded(a.Value))
		} else {
			b.WriteString(a.Value)
		}
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// Install makes a ProxyLogHandler the slog default.
//
// The standard log package stays on stderr: host emulators write to it from
// inside proxy_log, and routing it into the handler would re-enter proxy_log
// while the standard logger holds its lock.
func Install(opts ...HandlerOption) {
	slog.SetDefault(slog.New(NewHandler(opts...)))
	stdlog.SetOutput(os.Stderr)
	stdlog.SetFlags(stdlog.LstdFlags)
}

func init() {
	Install()
}
