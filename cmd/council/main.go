package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/telemetry"
)

const version = "dev"

type globalFlags struct {
	ConfigArgs []string
	JSON       bool
	Verbose    bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; variables already exported win.
	_ = godotenv.Load()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "help":
		printUsage()
		return
	case "version":
		ensureNoArgs(args[1:])
		printVersion()
		return
	case "init":
		runInit(global, args[1:])
		return
	case "validate":
		ensureNoArgs(args[1:])
		runValidate(global)
		return
	}

	cfg, err := config.LoadWithCLI(global.ConfigArgs)
	if err != nil {
		NewConfigError(err, configPathFromArgs(global.ConfigArgs)).PrintError(global.JSON)
		os.Exit(1)
	}
	setupLogging(cfg, global.Verbose)

	switch args[0] {
	case "ask":
		runAsk(ctx, global, cfg, args[1:])
	case "inbox":
		runInbox(ctx, global, cfg, args[1:])
	case "backends":
		runBackends(ctx, global, cfg, args[1:])
	case "mcp":
		runMCPServe(ctx, global, cfg, args[1:])
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var flags globalFlags

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "-v" || arg == "--verbose":
			flags.Verbose = true
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigArgs = append(flags.ConfigArgs, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigArgs = append(flags.ConfigArgs, arg)
		case arg == "--profile":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --profile")
			}
			flags.ConfigArgs = append(flags.ConfigArgs, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--profile="):
			flags.ConfigArgs = append(flags.ConfigArgs, arg)
		case arg == "--set":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --set")
			}
			flags.ConfigArgs = append(flags.ConfigArgs, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--set="):
			flags.ConfigArgs = append(flags.ConfigArgs, arg)
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

// configPathFromArgs extracts the --config value so commands that need the
// raw path (watcher, error hints) can report it.
func configPathFromArgs(configArgs []string) string {
	for i := 0; i < len(configArgs); i++ {
		arg := configArgs[i]
		if arg == "--config" && i+1 < len(configArgs) {
			return configArgs[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func setupLogging(cfg *config.Config, verbose bool) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	telemetry.ConfigureSlog(os.Stderr, level, cfg.Log.Format)
}

func printJSON(value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(payload))
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
}

func writeRow(writer *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(writer, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.Join(strings.Fields(value), " ")
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func printVersion() {
	fmt.Println(version)
}

func printUsage() {
	fmt.Println(`AI Council CLI

Usage:
  council [global flags] <command> [args]

Global flags:
  --config <path>      Path to council.yaml
  --profile <name>     Config profile overlay (dev, prod, ...)
  --set key=value      Override config (repeatable)
  --verbose            Debug logging
  --json               JSON output where supported

Commands:
  ask "question" [--rounds N] [--models a,b] [--full] [--synthesizer name]
                 [--output <dir>] [--skip-health-check]
  ask --file <question.md> [flags]
  inbox [--dir <path>] [--rounds N] [--models a,b] [--full] [--skip-health-check]
  backends [--check]
  validate
  init <dir> [--overwrite]
  mcp serve
  version
  help`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func ensureNoArgs(args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}
}
