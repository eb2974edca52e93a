package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/imgsizecompress/internal/compress"
	"github.com/idelchi/imgsizecompress/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// AllowedOutputs lists the supported report formats.
//
//nolint:gochecknoglobals // Config constant
var AllowedOutputs = []string{"table", "json", "markdown"}

// options holds everything a run needs after flags and config are merged.
type options struct {
	compress.Options

	// Output represents output format (table, json or markdown).
	Output string
	// NoColor disables colored output.
	NoColor bool
	// ConfigPath is an explicit configuration file.
	ConfigPath string

	maxOutput string
}

func registerFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.Engine, "engine", "e", "",
		"Path to the engine executable (default: bin/engine next to this binary, then PATH)")
	fs.StringVarP(&opts.Output, "output", "o", "table", "Output format: table, json or markdown")
	fs.StringVar(&opts.maxOutput, "max-output", "0", "Maximum engine output size (e.g., 64MiB, 0=unlimited)")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug output")
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (default: "+config.DefaultPath()+")")

	fs.SortFlags = false
}

// applyConfig merges the configuration file into opts. Flags set on the
// command line take precedence over the file.
func (o *options) applyConfig(fs *pflag.FlagSet) error {
	path := o.ConfigPath
	explicit := path != ""

	if !explicit {
		path = config.DefaultPath()
	}

	file, err := config.Load(path)

	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		file = &config.File{}
	case err != nil:
		return fmt.Errorf("loading config %q: %w", path, err)
	}

	if !fs.Changed("engine") && file.Engine != "" {
		o.Engine = file.Engine
	}

	if !fs.Changed("output") && file.Output != "" {
		o.Output = file.Output
	}

	if !fs.Changed("no-color") && file.NoColor {
		o.NoColor = true
	}

	if fs.Changed("max-output") {
		size, err := humanize.ParseBytes(o.maxOutput)
		if err != nil {
			return fmt.Errorf("invalid max-output: %w", err)
		}

		o.MaxOutput = int64(size) //nolint:gosec // Size conversion from humanize is safe
	} else {
		size, err := file.MaxOutputBytes()
		if err != nil {
			return err
		}

		o.MaxOutput = size
	}

	if !slices.Contains(AllowedOutputs, o.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", o.Output, AllowedOutputs)
	}

	return nil
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "img-size-compress [flags] [dir]",
		Short: "A CLI tool to compress image sizes",
		Long: heredoc.Doc(`
			img-size-compress compresses the images in a directory and reports the space saved.

			The compression itself is done by an external engine executable, which is
			called with the absolute path of the directory. Its results are collected
			and shown as a per-file table followed by the total savings.

			Positional Arguments:
			  dir    Directory containing images to compress. Defaults to the current directory.

			The engine is looked up in this order: --engine, the "engine" key of the
			configuration file, bin/engine next to this binary, and finally "engine" on PATH.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = "."
			if len(args) == 1 {
				opts.Path = args[0]
			}

			if err := opts.applyConfig(cmd.Flags()); err != nil {
				return err
			}

			return logic(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	registerFlags(cmd.Flags(), &opts)

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}
