// main.go
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
)

const version = "1.1.2"

// --- Main Program Logic ---

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int { // NOSONAR
	// --- Argument Parsing ---
	opts, fs, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.version {
		fmt.Fprintf(stdout, "tagore %s\n", version)
		return 0
	}
	if opts.input == "" || opts.prefix == "" {
		fmt.Fprintln(stderr, "both -input and -prefix are required")
		fs.Usage()
		return 1
	}

	log := newLogger(stderr, opts.verbose)
	out := newConsole(stdout, opts.verbose)

	format, ok := parseOutputFormat(opts.format)
	if !ok {
		out.warn("%s is not PNG or PDF, using PNG", opts.format)
	}

	// --- Reference Data & Template ---
	ref, err := DefaultReference()
	if err != nil {
		log.Errorf("Error loading reference tables: %v", err)
		return 1
	}
	build, err := ref.Build(opts.build)
	if err != nil {
		log.Errorf("Error selecting genome build: %v", err)
		return 1
	}
	tmpl, err := LoadTemplate(opts.template)
	if err != nil {
		log.Errorf("Error loading template: %v", err)
		return 1
	}
	rasterizer, err := newRasterizer(opts.renderer, opts.scale, opts.timeout)
	if err != nil {
		log.Errorf("Error selecting converter: %v", err)
		return 1
	}

	out.info("Drawing chromosome ideogram using %s", opts.input)

	// --- Output Path ---
	svgPath := opts.prefix + ".svg"
	if fileExists(svgPath) && !opts.force {
		overwrite, err := out.confirmOverwrite(stdin, svgPath)
		if err != nil {
			log.Error(err)
			return 1
		}
		if !overwrite {
			out.warn("tagore will now exit...")
			return 0
		}
		out.info("Overwriting existing file and saving to: %s", svgPath)
	} else {
		out.info("Saving to: %s", svgPath)
	}

	// --- Generation ---
	log.Debugf("Using genome build %s", build.Name)
	svg, stats, err := generateSVGFile(opts.input, DrawParams{
		Reference: ref,
		Build:     build,
		Template:  tmpl,
		Logger:    log,
	})
	if err != nil {
		log.Errorf("Error generating SVG: %v", err)
		return 1
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		log.Errorf("Error writing output file '%s': %v", svgPath, err)
		return 1
	}
	log.WithFields(logrus.Fields{
		"records": stats.Records,
		"drawn":   stats.Drawn,
		"overlay": stats.Overlay,
		"skipped": stats.Skipped,
	}).Debug("SVG written")
	out.success("Successfully created SVG")

	// --- Conversion ---
	outPath := opts.prefix + "." + string(format)
	out.info("Converting %s -> %s", svgPath, outPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := convertFile(ctx, rasterizer, []byte(svg), format, outPath); err != nil {
		out.fail("Conversion failed: %v", err)
		return 1
	}
	out.success("Successfully converted SVG to %s", strings.ToUpper(string(format)))
	return 0
}

// convertFile rasterizes svg into path. A partial file is removed on failure.
func convertFile(ctx context.Context, r Rasterizer, svg []byte, format OutputFormat, path string) error {
	var buf bytes.Buffer
	if err := r.Rasterize(ctx, svg, format, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
