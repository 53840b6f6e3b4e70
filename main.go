package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-cubemap-sh/pkg/config"
	"github.com/df07/go-cubemap-sh/pkg/core"
	"github.com/df07/go-cubemap-sh/pkg/cubemap"
	"github.com/df07/go-cubemap-sh/pkg/sh"
)

const usage = "Tool must be invoked with path to a folder containing cubemap .hdr (square) pictures in the form px.hdr, nx.hdr, py.hdr, ny.hdr, pz.hdr, nz.hdr"

// errUsage marks command line mistakes
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the tool and returns the process exit code. Nothing is
// written to stdout unless the whole run succeeds.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, dir, help, err := parseArgs(args, stderr)
	if help {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usage)
		}
		return 1
	}

	logger := core.NewWriterLogger(stderr, cfg.Verbose)
	logger.Debug("configuration", "dir", dir, "bands", cfg.Bands, "maxLaplacian", cfg.MaxLaplacian,
		"extension", cfg.Extension, "variant", cfg.LaplacianVariant().String(), "workers", cfg.Workers)

	var out bytes.Buffer
	if err := process(context.Background(), cfg, dir, &out, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if _, err := stdout.Write(out.Bytes()); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

// parseArgs builds the run configuration from an optional JSON config file
// and the command line flags, which take precedence.
func parseArgs(args []string, stderr io.Writer) (config.Config, string, bool, error) {
	defaults := config.Default()

	fs := flag.NewFlagSet("cubemap-sh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "JSON config file (flags override its values)")
	bands := fs.Int("bands", defaults.Bands, fmt.Sprintf("SH bands to project (0-%d)", sh.MaxBands))
	maxLaplacian := fs.Float64("max-laplacian", defaults.MaxLaplacian, "Windowing bound on the squared Laplacian")
	ext := fs.String("ext", defaults.Extension, "Face file extension: hdr, png, jpg, bmp, tiff, webp")
	format := fs.String("format", defaults.Format, "Output format: 'text' or 'json'")
	channel := fs.Int("channel", defaults.Channel, "Also print a single color channel (0, 1, 2; -1 disables)")
	corrected := fs.Bool("corrected-window", false, "Use l²(l+1)² Laplacian weights over the full m range")
	workers := fs.Int("workers", defaults.Workers, "Face workers (0 = one per face)")
	verbose := fs.Bool("v", false, "Debug logging")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.Config{}, "", true, nil
		}
		return config.Config{}, "", false, fmt.Errorf("%w: %v", errUsage, err)
	}

	if *help {
		fmt.Fprintln(stderr, "Cubemap SH Projector")
		fmt.Fprintln(stderr, "Usage: cubemap-sh [options] <cubemap-dir>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "The directory must contain px, nx, py, ny, pz and nz face images.")
		return config.Config{}, "", true, nil
	}

	if fs.NArg() != 1 {
		return config.Config{}, "", false, fmt.Errorf("%w: expected one cubemap directory, got %d arguments", errUsage, fs.NArg())
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, "", false, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bands":
			cfg.Bands = *bands
		case "max-laplacian":
			cfg.MaxLaplacian = *maxLaplacian
		case "ext":
			cfg.Extension = *ext
		case "format":
			cfg.Format = *format
		case "channel":
			cfg.Channel = *channel
		case "corrected-window":
			cfg.CorrectedWindowing = *corrected
		case "workers":
			cfg.Workers = *workers
		case "v":
			cfg.Verbose = *verbose
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", false, err
	}
	return cfg, fs.Arg(0), false, nil
}

// jsonOutput is the shape of -format json output
type jsonOutput struct {
	Raw              sh.Coefficients[core.Color] `json:"raw"`
	MaxLaplacian     float64                     `json:"maxLaplacian"`
	Variant          string                      `json:"variant"`
	SquaredLaplacian float64                     `json:"squaredLaplacian"`
	Lambda           float64                     `json:"lambda"`
	Converged        bool                        `json:"converged"`
	Windowed         sh.Coefficients[core.Color] `json:"windowed"`
}

// process projects the cubemap in dir, windows the result and writes both
// coefficient sets to out
func process(ctx context.Context, cfg config.Config, dir string, out io.Writer, logger *core.SlogLogger) error {
	src, err := cubemap.NewDirectorySource(dir, cfg.Extension)
	if err != nil {
		return err
	}

	aggregator := &cubemap.Aggregator{Bands: cfg.Bands, Workers: cfg.Workers, Logger: logger}
	raw, stats, err := aggregator.Aggregate(ctx, src)
	if err != nil {
		return err
	}
	logger.Debug("aggregated", "texels", stats.TotalTexels, "solidAngle", stats.TotalSolidAngle, "duration", stats.Duration)

	solution := sh.FindWindowingLambda(sh.Luminance(raw), cfg.MaxLaplacian, cfg.LaplacianVariant())
	if !solution.Converged {
		logger.Warn("windowing solver did not converge", "iterations", solution.Iterations, "lambda", solution.Lambda)
	}
	windowed := sh.ApplyWindowing(raw, solution.Lambda)

	if cfg.Format == config.FormatJSON {
		return sh.WriteJSON(out, jsonOutput{
			Raw:              raw,
			MaxLaplacian:     cfg.MaxLaplacian,
			Variant:          cfg.LaplacianVariant().String(),
			SquaredLaplacian: solution.SquaredLaplacian,
			Lambda:           solution.Lambda,
			Converged:        solution.Converged,
			Windowed:         windowed,
		})
	}

	if err := sh.WriteText(out, raw); err != nil {
		return err
	}
	if cfg.Channel >= 0 {
		fmt.Fprintf(out, "\nchannel %d:\n", cfg.Channel)
		if err := sh.WriteChannel(out, raw, cfg.Channel); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "computing windowed SH with max_laplacian %v...\n", cfg.MaxLaplacian)
	fmt.Fprintf(out, "lambda: %v\n", solution.Lambda)
	return sh.WriteText(out, windowed)
}
