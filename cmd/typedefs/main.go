package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	typedefs "github.com/gqlkit/typedefs"
	eventbus "github.com/gqlkit/typedefs/internal/eventbus"
	events "github.com/gqlkit/typedefs/internal/events"
	otel "github.com/gqlkit/typedefs/internal/otel"
)

const rootUsage = `typedefs — GraphQL SDL import resolution & tools

USAGE:
  typedefs <command> [flags] <pointer> [<pointer>...]

A pointer is a .graphql file path, a glob such as 'schemas/**/*.graphql',
or literal SDL text. Files may import types from other files with
  # import Post, Author.name from "posts.graphql"

COMMANDS:
  print            Resolve pointers and write the merged SDL
  check            Resolve pointers and validate reference closure
  help             Show help for any command
`

const printUsage = `print FLAGS:
  -cwd <dir>              Working directory for relative pointers (default: .)
  -ignore <glob>          Exclude files from glob expansion. Repeatable
  -out <file>             Write merged SDL to file (default: stdout)
  -no-sort                Keep collection order instead of sorting by location
  -skip-import            Do not process # import directives
  -force-import           Process imports even when no directive is detected
  -sync                   Resolve with no concurrency
  -concurrency <n>        Max concurrent pointer resolutions (default: 50)
  -v                      Verbose progress logging
  -otel.endpoint <addr>   OTLP collector endpoint
  -otel.service <name>    OpenTelemetry service name (default: typedefs)
`

const checkUsage = `check FLAGS:
  (same flags as print, minus -out; exits non-zero when any reference
  has no matching definition)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("typedefs", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "print":
		return cmdPrint(cmdArgs)
	case "check":
		return cmdCheck(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "print":
		fmt.Print(printUsage)
	case "check":
		fmt.Print(checkUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// stringList collects repeated flag values.
type stringList []string

func (l *stringList) String() string { return fmt.Sprint([]string(*l)) }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type loadFlags struct {
	opts         typedefs.Options
	sync         bool
	verbose      bool
	otelEndpoint string
	otelService  string
}

func registerLoadFlags(fs *flag.FlagSet, f *loadFlags, ignore *stringList) {
	fs.StringVar(&f.opts.CWD, "cwd", ".", "")
	fs.Var(ignore, "ignore", "")
	fs.BoolVar(&f.opts.NoSort, "no-sort", false, "")
	fs.BoolVar(&f.opts.SkipGraphQLImport, "skip-import", false, "")
	fs.BoolVar(&f.opts.ForceGraphQLImport, "force-import", false, "")
	fs.IntVar(&f.opts.Concurrency, "concurrency", 0, "")
	fs.BoolVar(&f.sync, "sync", false, "")
	fs.BoolVar(&f.verbose, "verbose", false, "")
	fs.BoolVar(&f.verbose, "v", false, "")
	fs.StringVar(&f.otelEndpoint, "otel.endpoint", "", "")
	fs.StringVar(&f.otelService, "otel.service", "typedefs", "")
}

func (f *loadFlags) load(ctx context.Context, pointers []string) ([]*typedefs.Source, error) {
	if len(pointers) == 0 {
		return nil, fmt.Errorf("at least one pointer is required")
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	f.opts.Logger = logger

	eventbus.Use(eventbus.New())
	subscribeProgress(logger)
	shutdown, err := otel.Setup(f.otelEndpoint, f.otelService)
	if err != nil {
		return nil, err
	}
	defer shutdown(ctx)

	if f.sync {
		return typedefs.LoadSync(ctx, &f.opts, pointers...)
	}
	return typedefs.Load(ctx, &f.opts, pointers...)
}

func subscribeProgress(logger *slog.Logger) {
	eventbus.Subscribe(func(ctx context.Context, e events.SourceCollected) {
		logger.Debug("source collected", "pointer", e.Pointer, "location", e.Location, "cached", e.Cached)
	})
	eventbus.Subscribe(func(ctx context.Context, e events.GlobExpanded) {
		logger.Debug("globs expanded", "patterns", e.Patterns, "matches", e.Matches)
	})
	eventbus.Subscribe(func(ctx context.Context, e events.ImportFollowed) {
		logger.Debug("import followed", "from", e.From, "to", e.To, "imports", e.Imports)
	})
	eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
		logger.Debug("resolve finished", "sources", e.Sources, "duration", e.Duration, "error", e.Err)
	})
}

func cmdPrint(args []string) error {
	fs := flag.NewFlagSet("print", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	var f loadFlags
	var ignore stringList
	var out string
	registerLoadFlags(fs, &f, &ignore)
	fs.StringVar(&out, "out", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printUsage)
		return err
	}
	f.opts.Ignore = ignore

	sources, err := f.load(context.Background(), fs.Args())
	if err != nil {
		return err
	}
	sdl := typedefs.PrintSDL(sources)
	if out == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(out, []byte(sdl), 0o644)
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	var f loadFlags
	var ignore stringList
	registerLoadFlags(fs, &f, &ignore)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}
	f.opts.Ignore = ignore
	// Closure runs for every source even without import directives.
	f.opts.ForceGraphQLImport = true

	sources, err := f.load(context.Background(), fs.Args())
	if err != nil {
		return err
	}
	total := 0
	for _, src := range sources {
		if src.Document != nil {
			total += len(src.Document.Definitions)
		}
	}
	fmt.Printf("ok: %d sources, %d definitions\n", len(sources), total)
	return nil
}
