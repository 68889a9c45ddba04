package main

import (
	"maps"
	"os"
	"slices"
	"unicode"

	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ozontech/propescape/logger"
	"github.com/ozontech/propescape/suite"
	"github.com/ozontech/propescape/ucd"
)

var (
	app     = kingpin.New("gen-suite", "Writes a Script conformance suite derived from the Go Unicode tables.")
	scripts = app.Flag("script", "Script to include, repeatable. All scripts when omitted.").Strings()
	out     = app.Flag("out", "Output file, .zst for zstd. Stdout when omitted.").String()
)

func cases(names []string) ([]ucd.PropertyCase, error) {
	if len(names) == 0 {
		names = slices.Sorted(maps.Keys(unicode.Scripts))
	}

	res := make([]ucd.PropertyCase, 0, len(names))
	for _, name := range names {
		c, err := ucd.ScriptCase(name)
		if err != nil {
			if len(*scripts) > 0 {
				return nil, err
			}
			// go knows a script the alias table lacks
			logger.Warn("script skipped", zap.String("script", name), zap.Error(err))
			continue
		}
		res = append(res, c)
	}
	return res, nil
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cs, err := cases(*scripts)
	if err != nil {
		logger.Fatal("can't derive cases", zap.Error(err))
	}
	s := suite.FromUCD(cs)

	if *out == "" {
		if err := suite.Encode(os.Stdout, s); err != nil {
			logger.Fatal("can't write suite", zap.Error(err))
		}
		return
	}
	if err := suite.Save(*out, s); err != nil {
		logger.Fatal("can't write suite", zap.Error(err))
	}
	logger.Info("suite written", zap.String("path", *out), zap.Int("cases", len(s.Cases)))
}
