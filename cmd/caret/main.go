// caret is a headless command line for inspecting and deduplicating
// line-delimited corpora.
//
// Usage:
//
//	caret info <src>
//	caret line <src> <index>...
//	caret scan <src> [--strategy fuzzy] [--threshold 3] [--report dups.jsonl]
//	caret export <src> --out <dst> [--compression zstd] [--keep-duplicates]
//
// A source or destination is a local path, "-" for stdin, s3://bucket/key or
// minio://endpoint/bucket/key.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/hupe1980/caret"
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/dedup"
	"github.com/hupe1980/caret/export"
	"github.com/hupe1980/caret/internal/config"
	"github.com/hupe1980/caret/internal/conv"
)

const usage = `usage: caret <command> [flags] <src> [args]

commands:
  info    print dataset statistics
  line    print lines by index
  scan    find duplicate lines and print a summary
  export  write a deduplicated copy

run "caret <command> --help" for command flags`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by all commands.
type app struct {
	cfg    *config.Config
	logger *caret.Logger
	opts   []caret.Option
	flags  *pflag.FlagSet
	stdin  io.Reader
	stdout io.Writer
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath  string
	logLevel    string
	logJSON     bool
	format      string
	workers     int
	memoryLimit string
	ioLimit     string
	cacheSize   string
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML config file (default: $"+config.EnvVar+")")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&f.logJSON, "log-json", false, "log JSON to stderr instead of text")
	fs.StringVar(&f.format, "format", "", "input format: jsonl, csv, tsv (default: from name)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "worker count (default: GOMAXPROCS)")
	fs.StringVar(&f.memoryLimit, "memory-limit", "", "memory budget shared by loading and scanning, e.g. 4GiB (default: unlimited)")
	fs.StringVar(&f.ioLimit, "io-limit", "", "remote IO budget per second, e.g. 100MB")
	fs.StringVar(&f.cacheSize, "cache", "", "remote block cache size, e.g. 256MiB")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return errors.New("missing command")
	}

	var cmd func(context.Context, *app, []string) error
	var scan scanFlags
	var exp exportFlags

	fs := pflag.NewFlagSet("caret "+args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)

	switch args[0] {
	case "info":
		cmd = runInfo
	case "line":
		cmd = runLine
	case "scan":
		scan.register(fs)
		cmd = func(ctx context.Context, a *app, rest []string) error { return runScan(ctx, a, &scan, rest) }
	case "export":
		scan.register(fs)
		exp.register(fs)
		cmd = func(ctx context.Context, a *app, rest []string) error { return runExport(ctx, a, &scan, &exp, rest) }
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		fmt.Fprintln(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	a, err := newApp(&common, fs, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	return cmd(ctx, a, fs.Args())
}

func newApp(f *commonFlags, fs *pflag.FlagSet, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}
	if fs.Changed("workers") {
		cfg.Scan.Workers = f.workers
	}
	for _, b := range []struct {
		flag string
		val  string
		dst  *int64
	}{
		{"memory-limit", f.memoryLimit, &cfg.Limits.MemoryBytes},
		{"io-limit", f.ioLimit, &cfg.Limits.IOBytesPerSec},
		{"cache", f.cacheSize, &cfg.Cache.CapacityBytes},
	} {
		if !fs.Changed(b.flag) {
			continue
		}
		n, err := humanize.ParseBytes(b.val)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", b.flag, err)
		}
		if *b.dst, err = conv.Uint64ToInt64(n); err != nil {
			return nil, fmt.Errorf("--%s: %w", b.flag, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var logger *caret.Logger
	if cfg.Log.JSON {
		logger = caret.NewLogger(slog.NewJSONHandler(stderr, opts))
	} else {
		logger = caret.NewLogger(slog.NewTextHandler(stderr, opts))
	}

	copts := []caret.Option{
		caret.WithLogger(logger),
		caret.WithLimits(cfg.Limits.MemoryBytes, cfg.Limits.IOBytesPerSec),
	}
	if cfg.Scan.Workers > 0 {
		copts = append(copts, caret.WithWorkers(cfg.Scan.Workers))
	}
	if cfg.Scan.ChunkSize > 0 {
		copts = append(copts, caret.WithChunkSize(cfg.Scan.ChunkSize))
	}
	if cfg.Cache.CapacityBytes > 0 {
		copts = append(copts, caret.WithBlockCache(cfg.Cache.CapacityBytes))
		if cfg.Cache.BlockSize > 0 {
			copts = append(copts, caret.WithBlockSize(cfg.Cache.BlockSize))
		}
	}
	if f.format != "" {
		format, ok := dataset.ParseFormat(f.format)
		if !ok {
			return nil, fmt.Errorf("--format: unknown format %q", f.format)
		}
		copts = append(copts, caret.WithFormat(format))
	}

	return &app{cfg: cfg, logger: logger, opts: copts, flags: fs, stdin: stdin, stdout: stdout}, nil
}

func (a *app) open(ctx context.Context, src string) (*dataset.Dataset, error) {
	loc, err := parseLocation(src)
	if err != nil {
		return nil, err
	}
	s, err := loc.source(ctx, a.cfg, a.stdin)
	if err != nil {
		return nil, err
	}
	return caret.Open(ctx, s, a.opts...)
}

func runInfo(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("info: want exactly one source")
	}
	ds, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer ds.Close()

	fmt.Fprintf(a.stdout, "name:        %s\n", ds.Name())
	fmt.Fprintf(a.stdout, "size:        %s\n", ds.SizeHuman())
	fmt.Fprintf(a.stdout, "lines:       %s\n", humanize.Comma(int64(ds.LineCount())))
	fmt.Fprintf(a.stdout, "format:      %s\n", ds.Format())
	fmt.Fprintf(a.stdout, "compression: %s\n", ds.Compression())
	fmt.Fprintf(a.stdout, "zero-copy:   %t\n", ds.ZeroCopy())
	fmt.Fprintf(a.stdout, "index:       %s\n", humanize.IBytes(uint64(ds.IndexSizeBytes())))
	return nil
}

func runLine(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return errors.New("line: want a source and at least one index")
	}
	ds, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer ds.Close()

	for _, arg := range args[1:] {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("line: index %q: %w", arg, err)
		}
		line, err := ds.Line(i)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

// scanFlags override the scan section of the config.
type scanFlags struct {
	strategy  string
	threshold int
	shingle   int
	report    string
}

func (f *scanFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.strategy, "strategy", "", "exact or fuzzy (default: fuzzy)")
	fs.IntVarP(&f.threshold, "threshold", "t", 0, "fuzzy Hamming threshold in bits (default: 3)")
	fs.IntVar(&f.shingle, "shingle", 0, "SimHash shingle width in bytes (default: 4)")
	fs.StringVar(&f.report, "report", "", "write a JSON lines duplicate report to this path (- for stdout)")
}

// dedupConfig merges explicitly set flags over the config file.
func (f *scanFlags) dedupConfig(a *app) (dedup.Config, error) {
	if a.flags.Changed("strategy") {
		a.cfg.Scan.Strategy = f.strategy
	}
	if a.flags.Changed("threshold") {
		a.cfg.Scan.Threshold = f.threshold
	}
	if a.flags.Changed("shingle") {
		a.cfg.Scan.ShingleWidth = f.shingle
	}
	return a.cfg.Dedup()
}

func (a *app) scan(ctx context.Context, ds *dataset.Dataset, f *scanFlags) (*dedup.Result, error) {
	cfg, err := f.dedupConfig(a)
	if err != nil {
		return nil, err
	}
	res, err := caret.RunDedup(ctx, ds, cfg, a.opts...)
	if err != nil {
		return nil, err
	}

	if f.report != "" {
		if err := a.writeReport(ctx, res, f.report); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (a *app) writeReport(ctx context.Context, res *dedup.Result, path string) error {
	if path == "-" {
		_, err := export.WriteReport(ctx, res, a.stdout)
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := export.WriteReport(ctx, res, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	a.logger.DebugContext(ctx, "report written", "path", path, "entries", n)
	return nil
}

func runScan(ctx context.Context, a *app, f *scanFlags, args []string) error {
	if len(args) != 1 {
		return errors.New("scan: want exactly one source")
	}
	ds, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer ds.Close()

	res, err := a.scan(ctx, ds, f)
	if err != nil {
		return err
	}
	if f.report != "-" {
		fmt.Fprintln(a.stdout, res.Summary())
	}
	return nil
}

// exportFlags configure the export command.
type exportFlags struct {
	out            string
	compression    string
	keepDuplicates bool
}

func (f *exportFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.out, "out", "o", "", "destination path, s3:// or minio:// URL (required)")
	fs.StringVar(&f.compression, "compression", "", "none, zstd, lz4 or gzip (default: from destination name)")
	fs.BoolVar(&f.keepDuplicates, "keep-duplicates", false, "write the duplicate lines instead of the unique ones")
}

func runExport(ctx context.Context, a *app, sf *scanFlags, ef *exportFlags, args []string) error {
	if len(args) != 1 {
		return errors.New("export: want exactly one source")
	}
	if ef.out == "" {
		return errors.New("export: --out is required")
	}
	dst, err := parseLocation(ef.out)
	if err != nil {
		return err
	}

	ds, err := a.open(ctx, args[0])
	if err != nil {
		return err
	}
	defer ds.Close()

	res, err := a.scan(ctx, ds, sf)
	if err != nil {
		return err
	}

	store, name, err := dst.store(ctx, a.cfg)
	if err != nil {
		return err
	}

	eo := export.Options{
		Compression:    a.cfg.Export.Compression,
		KeepDuplicates: a.cfg.Export.KeepDuplicates || ef.keepDuplicates,
	}
	if ef.compression != "" {
		eo.Compression = ef.compression
	}

	st, err := caret.Export(ctx, ds, res, store, name, eo, a.opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\nwrote %s lines (%s) to %s, skipped %s, blake3 %s\n",
		res.Summary(),
		humanize.Comma(int64(st.Written)),
		humanize.Bytes(uint64(st.Bytes)),
		ef.out,
		humanize.Comma(int64(st.Skipped)),
		st.DigestHex(),
	)
	return nil
}
