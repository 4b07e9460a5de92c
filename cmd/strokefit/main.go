// Command strokefit fits freehand strokes with line and curve segments.
//
// It reads a document of strokes (JSON, YAML or MessagePack), fits every
// stroke and writes the segments together with their SVG path data in the
// same format:
//
//	strokefit -in strokes.json -out paths.json -preview paths.png
//
// With -smooth it instead smooths a single SVG path and prints the result:
//
//	strokefit -smooth "M0,0 L1,1 L2,1.5 L3,1.6"
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/flux3dp/strokefit"
	"github.com/flux3dp/strokefit/internal/config"
	"github.com/flux3dp/strokefit/internal/preview"
	"github.com/flux3dp/strokefit/internal/strokeio"
)

type options struct {
	configFile string
	debug      bool
	in         string
	out        string
	format     string
	mode       string
	precision  int
	preview    string
	smooth     string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("strokefit", flag.ContinueOnError)
	fs.StringVar(&o.configFile, "config", "", "Path to YAML config file")
	fs.BoolVar(&o.debug, "debug", false, "Turn on debugging output")
	fs.StringVar(&o.in, "in", "", "Stroke document to read (default: stdin)")
	fs.StringVar(&o.out, "out", "", "Where to write results (default: stdout)")
	fs.StringVar(&o.format, "format", "", "Document format: json, yaml or msgpack (default: from -in extension, else json)")
	fs.StringVar(&o.mode, "mode", "", "Fit mode: linear or bezier (overrides config)")
	fs.IntVar(&o.precision, "precision", -1, "Decimal places in SVG path data (overrides config)")
	fs.StringVar(&o.preview, "preview", "", "Write a PNG preview of the fitted strokes to this file")
	fs.StringVar(&o.smooth, "smooth", "", "Smooth the given SVG path data and print it")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, errors.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout))
}

// realMain runs the command and returns its exit status. It never exits
// itself, so deferred calls such as the logger's Sync always run.
func realMain(args []string, stdin io.Reader, stdout io.Writer) int {
	o, err := parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	var zapLogger *zap.Logger
	if o.debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Printf("can't initialize zap logger: %v\n", err)
		return 1
	}
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	cfg, err := loadConfig(o)
	if err != nil {
		log.Errorf("error reading config: %v", err)
		return 1
	}

	if err := run(o, cfg, stdin, stdout, log); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if o.mode != "" {
		cfg.Mode = o.mode
	}
	if o.precision >= 0 {
		cfg.SVG.Precision = o.precision
	}
	return cfg, cfg.Validate()
}

func run(o options, cfg config.Config, stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger) error {
	if o.smooth != "" {
		return smooth(o.smooth, cfg, stdout, log)
	}

	format, err := documentFormat(o)
	if err != nil {
		return err
	}

	in := stdin
	if o.in != "" {
		f, err := os.Open(o.in)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		defer f.Close()
		in = f
	}
	doc, err := strokeio.Decode(in, format)
	if err != nil {
		return err
	}

	fitter := cfg.Fitter()
	svgOpts := cfg.SVGOptions()
	results := strokeio.ResultDocument{Results: make([]strokeio.Result, 0, len(doc.Strokes))}
	var fitted [][]strokefit.PathSegment
	var samples, segments int
	for _, s := range doc.Strokes {
		segs, err := fitter.Fit(s.Points)
		if err != nil {
			return errors.Wrapf(err, "stroke %s", s.ID)
		}
		log.Debugw("fitted stroke", "id", s.ID, "samples", len(s.Points), "segments", len(segs))
		samples += len(s.Points)
		segments += len(segs)
		fitted = append(fitted, segs)
		results.Results = append(results.Results, strokeio.NewResult(s.ID, segs, svgOpts))
	}
	log.Infow("fitted strokes", "mode", fitter.Mode, "strokes", len(doc.Strokes), "samples", samples, "segments", segments)

	if err := writeResults(o.out, stdout, format, results); err != nil {
		return err
	}
	if o.preview != "" {
		if err := writePreview(o.preview, fitted, cfg); err != nil {
			return err
		}
		log.Infow("wrote preview", "path", o.preview)
	}
	return nil
}

func documentFormat(o options) (strokeio.Format, error) {
	if o.format != "" {
		return strokeio.ParseFormat(o.format)
	}
	if f, ok := strokeio.FormatFromPath(o.in); ok {
		return f, nil
	}
	return strokeio.JSON, nil
}

func smooth(d string, cfg config.Config, stdout io.Writer, log *zap.SugaredLogger) error {
	opts := strokefit.SmoothOptions{
		Fit:       cfg.FitOptions(),
		SVG:       cfg.SVGOptions(),
		Transform: strokefit.Identity,
	}
	out, err := strokefit.Smooth(d, opts)
	if err != nil {
		// the caller gets its path back unchanged
		log.Warnw("cannot smooth path, keeping it as is", "error", err)
		out = d
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

func writeResults(path string, stdout io.Writer, format strokeio.Format, results strokeio.ResultDocument) error {
	if path == "" {
		return strokeio.Encode(stdout, format, results)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := strokeio.Encode(f, format, results); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing output")
}

func writePreview(path string, strokes [][]strokefit.PathSegment, cfg config.Config) error {
	img, err := preview.Render(strokes, preview.Options{
		Width:       cfg.Preview.Width,
		Height:      cfg.Preview.Height,
		StrokeWidth: cfg.Preview.StrokeWidth,
		Padding:     cfg.Preview.Padding,
	})
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating preview")
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing preview")
}
