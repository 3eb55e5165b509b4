// Command envoy-sdk-inspect checks that a compiled WebAssembly module can be
// loaded by Envoy as a proxy-wasm extension.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/envoy-sdk-go/application/schema"
	"github.com/reglet-dev/envoy-sdk-go/application/validation"
	"github.com/reglet-dev/envoy-sdk-go/infrastructure/wazero"
	"github.com/reglet-dev/envoy-sdk-go/internal/version"
	"github.com/reglet-dev/envoy-sdk-go/wireformat"
)

type (
	cmd struct {
		Verbose bool       `help:"Log inspection details to stderr." short:"v"`
		Version struct{}   `cmd:"" help:"Show version."`
		Inspect cmdInspect `cmd:"" help:"Inspect a compiled extension module and report its proxy-wasm surface."`
		Schema  struct{}   `cmd:"" help:"Print the JSON schema of the inspection report."`
	}
	cmdInspect struct {
		Path   string `arg:"" name:"path" help:"Path to the .wasm module." type:"path"`
		Format string `help:"Output format." enum:"json,yaml" default:"json"`
		Strict bool   `help:"Treat warnings as errors."`
	}
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr, os.Args[1:]))
}

func doMain(stdout, stderr io.Writer, args []string) int {
	var c cmd
	parser, err := kong.New(&c,
		kong.Name("envoy-sdk-inspect"),
		kong.Description("Inspect proxy-wasm extension modules."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating parser: %v\n", err)
		return exitUsage
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	switch kctx.Command() {
	case "version":
		fmt.Fprintf(stdout, "envoy-sdk-inspect: %s (proxy-wasm ABI %s)\n", version.Version, version.ABIVersion)
		return exitOK
	case "schema":
		data, err := schema.GenerateSchema(wireformat.ReportWire{},
			schema.WithTitle("envoy-sdk-inspect report"),
			schema.WithDescription("Report version "+wireformat.ReportVersion),
		)
		if err != nil {
			fmt.Fprintf(stderr, "Error generating schema: %v\n", err)
			return exitInvalid
		}
		fmt.Fprintln(stdout, string(data))
		return exitOK
	case "inspect <path>":
		return inspect(context.Background(), logger, c.Inspect, stdout, stderr)
	default:
		panic("unreachable")
	}
}

func inspect(ctx context.Context, logger *slog.Logger, c cmdInspect, stdout, stderr io.Writer) int {
	name := filepath.Base(c.Path)
	wasm, err := os.ReadFile(c.Path)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading module: %v\n", err)
		return exitUsage
	}

	ctx = wazero.WithModuleName(ctx, name)
	report, err := wazero.NewInspector(wazero.WithLogger(logger)).Inspect(ctx, wasm)
	if err != nil {
		logger.ErrorContext(ctx, "inspection failed", "module", name, "error", err)
		return write(stdout, stderr, c.Format, wireformat.NewErrorReportWire(name, len(wasm), err), exitInvalid)
	}

	result, err := validation.ValidateReport(report)
	if err != nil {
		fmt.Fprintf(stderr, "Error validating module: %v\n", err)
		return exitInvalid
	}
	for _, w := range result.Warnings {
		logger.WarnContext(ctx, w.Message, "module", name, "field", w.Field)
	}

	code := exitOK
	if !result.Valid || (c.Strict && len(result.Warnings) > 0) {
		code = exitInvalid
	}
	return write(stdout, stderr, c.Format, wireformat.NewReportWire(name, len(wasm), report, result), code)
}

func write(stdout, stderr io.Writer, format string, w *wireformat.ReportWire, code int) int {
	var err error
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		err = enc.Encode(w)
		if err == nil {
			err = enc.Close()
		}
	default:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitInvalid
	}
	return code
}
