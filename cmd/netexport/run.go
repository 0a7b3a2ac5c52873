package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gemtract/core/internal/export"
	"github.com/gemtract/core/internal/models"
	"github.com/gemtract/core/internal/parser"
	"github.com/gemtract/core/internal/service"
	"github.com/gemtract/core/internal/storage"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	Model                string
	Filter               string
	NetworkType          string
	Format               string
	Output               string
	RemoveMissingSpecies bool
	RemoveUncatalysed    bool
	KeepComplexes        bool
	Verbose              bool

	// set names the flags given on the command line.
	set map[string]bool
}

// policy returns v when the flag was given, leaving the filter file's value
// in place otherwise.
func (o options) policy(name string, v bool) *bool {
	if !o.set[name] {
		return nil
	}
	return &v
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("netexport", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.Model, "model", "", "model document (JSON) [required]")
	fs.StringVar(&o.Filter, "filter", "", "filter file: .json, .yaml/.yml or batch text")
	fs.StringVar(&o.NetworkType, "type", string(models.MetabolicNetwork), "network type: mn or en")
	fs.StringVar(&o.Format, "format", string(export.FormatSBML), "output format: "+formatList())
	fs.StringVar(&o.Output, "o", "", "output file [stdout]")
	fs.BoolVar(&o.RemoveMissingSpecies, "remove-missing-species", false, "drop reactions that lose a reactant or product")
	fs.BoolVar(&o.RemoveUncatalysed, "remove-uncatalysed", false, "drop reactions whose catalysts are all removed")
	fs.BoolVar(&o.KeepComplexes, "keep-complexes", false, "keep complexes that contain a removed enzyme")
	fs.BoolVar(&o.Verbose, "v", false, "log extraction diagnostics")

	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage:")
		_, _ = fmt.Fprintln(stderr, "  netexport -model model.json [-filter filter.txt] [-type mn|en] [-format sbml] [-o out]")
		_, _ = fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}
	return fs
}

func formatList() string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func newLogger(stderr io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(stderr), level))
}

// run executes one export and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	if o.Model == "" || fs.NArg() > 0 {
		fs.Usage()
		return exitUsage
	}

	logger := newLogger(stderr, o.Verbose)
	defer func() { _ = logger.Sync() }()

	if err := extract(ctx, o, stdout, logger); err != nil {
		_, _ = fmt.Fprintf(stderr, "netexport: %v\n", err)
		return exitError
	}
	return exitOK
}

func extract(ctx context.Context, o options, stdout io.Writer, logger *zap.Logger) error {
	format, err := export.ParseFormat(o.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(o.Model)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	svc, err := service.New(storage.NewMemory(), 1, nil, logger)
	if err != nil {
		return err
	}
	summary, err := svc.RegisterModel(data)
	if err != nil {
		return err
	}

	if o.Filter != "" {
		filter, err := parser.LoadFilter(o.Filter)
		if err != nil {
			return err
		}
		if _, err := svc.EvaluateFilter(summary.ModelID, filter); err != nil {
			return err
		}
	}

	network, err := svc.BuildNetwork(summary.ModelID, service.NetworkRequest{
		NetworkType:                  o.NetworkType,
		RemoveReactionEnzymesRemoved: o.policy("remove-uncatalysed", o.RemoveUncatalysed),
		RemoveReactionMissingSpecies: o.policy("remove-missing-species", o.RemoveMissingSpecies),
		RemovingEnzymeRemovesComplex: o.policy("keep-complexes", !o.KeepComplexes),
	})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if o.Output == "" {
		return export.Write(stdout, network, format)
	}

	data, err = export.Render(network, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.Output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
