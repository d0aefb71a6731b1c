package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBuild    = "hg38"
	defaultRenderer = "native"
	defaultTimeout  = time.Minute
)

// options is the resolved command line.
type options struct {
	input    string
	prefix   string
	format   string
	build    string
	renderer string
	template string
	config   string
	scale    float64
	timeout  time.Duration
	force    bool
	verbose  bool
	version  bool
}

// fileConfig is the optional YAML config file. Flags given on the command line win.
type fileConfig struct {
	Build    string  `yaml:"build"`
	Format   string  `yaml:"oformat"`
	Renderer string  `yaml:"renderer"`
	Template string  `yaml:"template"`
	Scale    float64 `yaml:"scale"`
	Timeout  string  `yaml:"timeout"`
	Verbose  *bool   `yaml:"verbose"`
	Force    *bool   `yaml:"force"`
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("tagore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Every option has a short and a long spelling bound to the same variable.
	str := func(p *string, short, long, def, usage string) {
		fs.StringVar(p, short, def, usage)
		fs.StringVar(p, long, def, usage)
	}
	boolean := func(p *bool, short, long string, usage string) {
		fs.BoolVar(p, short, false, usage)
		fs.BoolVar(p, long, false, usage)
	}

	str(&opts.input, "i", "input", "", "Input feature table (tab separated, '-' for stdin)")
	str(&opts.prefix, "p", "prefix", "", "Prefix for output files")
	str(&opts.format, "o", "oformat", string(FormatPNG), "Output format (png or pdf)")
	str(&opts.build, "b", "build", defaultBuild, "Genome build (hg37 or hg38)")
	str(&opts.renderer, "r", "renderer", defaultRenderer, "SVG converter (native or chrome)")
	str(&opts.template, "t", "template", "", "SVG template with a "+featureMarker+" marker (default: bundled silhouette)")
	str(&opts.config, "c", "config", "", "YAML config file with option defaults")
	boolean(&opts.force, "f", "force", "Force overwrite of existing files")
	boolean(&opts.verbose, "v", "verbose", "Increase output verbosity")
	fs.Float64Var(&opts.scale, "scale", 1, "Pixel scale for the native converter")
	fs.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Time limit for the chrome converter")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s -i <features.tsv> -p <prefix> [flags]\n", fs.Name())
		fmt.Fprintln(stderr, "\nA utility for illustrating human chromosomes.")
		fmt.Fprintln(stderr, "\nInput columns: chromosome, start, end, shape (0-3), size (0-1], color (#RRGGBB), copy (1|2)")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

// parseOptions parses args and merges in the config file, if one is named.
func parseOptions(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if opts.config == "" {
		return opts, fs, nil
	}

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return opts, fs, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	given := func(short, long string) bool { return set[short] || set[long] }

	if cfg.Build != "" && !given("b", "build") {
		opts.build = cfg.Build
	}
	if cfg.Format != "" && !given("o", "oformat") {
		opts.format = cfg.Format
	}
	if cfg.Renderer != "" && !given("r", "renderer") {
		opts.renderer = cfg.Renderer
	}
	if cfg.Template != "" && !given("t", "template") {
		opts.template = cfg.Template
	}
	if cfg.Scale > 0 && !set["scale"] {
		opts.scale = cfg.Scale
	}
	if cfg.Timeout != "" && !set["timeout"] {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return opts, fs, fmt.Errorf("config '%s': bad timeout: %w", opts.config, err)
		}
		opts.timeout = d
	}
	if cfg.Verbose != nil && !given("v", "verbose") {
		opts.verbose = *cfg.Verbose
	}
	if cfg.Force != nil && !given("f", "force") {
		opts.force = *cfg.Force
	}
	return opts, fs, nil
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}
	return cfg, nil
}
