package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/c2h5oh/datasize"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ozontech/propescape/codepoint"
	"github.com/ozontech/propescape/conf"
	"github.com/ozontech/propescape/engine"
	"github.com/ozontech/propescape/logger"
	"github.com/ozontech/propescape/report"
	"github.com/ozontech/propescape/runner"
	"github.com/ozontech/propescape/suite"
	"github.com/ozontech/propescape/ucd"
)

const (
	exitFailed = 1
	exitError  = 2
)

var (
	app = kingpin.New("propcheck", "Checks that regexp engines classify characters by Unicode script properly.")

	runCmd      = app.Command("run", "Run a conformance suite against an engine.")
	suitePath   = runCmd.Flag("suite", "YAML suite file, .zst for zstd compressed.").ExistingFile()
	scripts     = runCmd.Flag("script", "Check a script derived from the built-in Unicode tables, repeatable.").Strings()
	allScripts  = runCmd.Flag("all-scripts", "Check every script known to the built-in Unicode tables.").Bool()
	engineName  = runCmd.Flag("engine", "Engine under test.").Default(string(conf.EngineStdlib)).Enum(engine.Names()...)
	writeReport = runCmd.Flag("report", "Write a JSON line per check to stdout.").Bool()
	onlyFailed  = runCmd.Flag("only-failed", "Report failed checks only.").Bool()
	dense       = runCmd.Flag("dense", "Emit every code point of every range.").Bool()
	denseLimit  = runCmd.Flag("dense-limit", "Widest range emitted in full.").Default(fmt.Sprint(conf.DenseLimit)).Int()
	stride      = runCmd.Flag("stride", "Distance between samples inside wide ranges.").Default(fmt.Sprint(conf.SampleStride)).Int()
	edge        = runCmd.Flag("edge", "Samples taken next to each bound of a wide range.").Default(fmt.Sprint(conf.EdgeSamples)).Int()
	workers     = runCmd.Flag("workers", "Cases checked in parallel.").Default(fmt.Sprint(conf.Workers)).Int()
	timeout     = runCmd.Flag("match-timeout", "Limit for a single regexp2 match, 0 for none.").Default("0s").Duration()
	logLevel    = app.Flag("log-level", "debug, info, warn or error.").Default("info").String()

	scriptsCmd = app.Command("scripts", "List the scripts and their aliases.")
)

// byteSize lets kingpin fill a datasize.ByteSize.
type byteSize struct {
	v *datasize.ByteSize
}

func (b byteSize) Set(s string) error {
	return b.v.UnmarshalText([]byte(s))
}

func (b byteSize) String() string {
	return b.v.HR()
}

func init() {
	runCmd.Flag("max-string-size", "Largest test string, e.g. 16MB.").SetValue(byteSize{&conf.MaxTestStringSize})
	runCmd.Flag("max-suite-size", "Largest decompressed suite, e.g. 256MB.").SetValue(byteSize{&conf.MaxSuiteSize})
}

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.SetLevel(*logLevel); err != nil {
		kingpin.Fatalf("bad log level %q: %s", *logLevel, err)
	}
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Info(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Warn("can't set GOMAXPROCS", zap.Error(err))
	}

	switch cmd {
	case runCmd.FullCommand():
		os.Exit(run())
	case scriptsCmd.FullCommand():
		listScripts()
	}
}

func loadSuite() (*suite.Suite, error) {
	switch {
	case *suitePath != "":
		return suite.Load(*suitePath)
	case *allScripts:
		return suite.FromUCD(ucd.AllScriptCases()), nil
	case len(*scripts) > 0:
		cases := make([]ucd.PropertyCase, 0, len(*scripts))
		for _, name := range *scripts {
			c, err := ucd.ScriptCase(name)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
		}
		return suite.FromUCD(cases), nil
	}
	return nil, errors.New("one of --suite, --script or --all-scripts is required")
}

func run() int {
	conf.MatchTimeout = *timeout
	eng, err := engine.ByName(*engineName)
	if err != nil {
		logger.Error("can't create engine", zap.Error(err))
		return exitError
	}

	s, err := loadSuite()
	if err != nil {
		logger.Error("can't load suite", zap.Error(err))
		return exitError
	}

	opts := runner.Options{
		Workers: *workers,
		Build:   []codepoint.Option{codepoint.WithSampling(*denseLimit, *edge, *stride)},
	}
	if *dense {
		opts.Build = append(opts.Build, codepoint.WithDense())
	}

	var jl *report.JSONLines
	out := bufio.NewWriter(os.Stdout)
	if *writeReport {
		jl = report.NewJSONLines(out, *onlyFailed)
		opts.Reporter = jl
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sum, err := runner.Run(ctx, eng, s, opts)
	if ferr := out.Flush(); ferr != nil {
		logger.Error("can't write report", zap.Error(ferr))
		return exitError
	}
	if jl != nil && jl.Err() != nil {
		logger.Error("can't write report", zap.Error(jl.Err()))
		return exitError
	}
	if err != nil {
		logger.Error("run interrupted", zap.Error(err))
		return exitError
	}
	if sum.Err != nil {
		logger.Error("some cases were not checked", zap.Error(sum.Err))
		return exitError
	}
	if !sum.OK() {
		return exitFailed
	}
	return 0
}

func listScripts() {
	for _, s := range ucd.Scripts() {
		aliases, err := ucd.Aliases(ucd.PropScript, s.Long)
		if err != nil {
			logger.Warn("no aliases", zap.String("script", s.Long), zap.Error(err))
			continue
		}
		fmt.Printf("%s\t%s\t%v\n", s.Long, s.Short, aliases)
	}
}
