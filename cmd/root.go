package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zerowidth/tlmgr-complete/pkg/config"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

// options set by the root command's persistent flags
type options struct {
	configPath string
	cacheDir   string
	ttl        time.Duration
	tlmgr      string
}

// NewRootCmd builds the tlmgr-complete command tree. The root command itself
// does nothing but print help.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tlmgr-complete",
		Short: "tlmgr-complete provides the dynamic data for tlmgr tab completion",
		Long: `tlmgr-complete asks tlmgr for lists of things (paper sizes, platforms,
keys, options, ...) and prints them for a shell completion function, caching
each list for a while so completion stays fast.

A completion function runs, for example:

  tlmgr-complete complete --format zsh paper pdftex

and gets one candidate per line, or nothing on stdout and exit status 1 when
there's nothing to offer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.Filename, "config file")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "cache directory (overrides cache_dir)")
	flags.DurationVar(&opts.ttl, "ttl", 0, "how long cached lists are used (overrides cache_ttl)")
	flags.StringVar(&opts.tlmgr, "tlmgr", "", "tlmgr command line (overrides tlmgr)")

	root.AddCommand(
		newCompleteCmd(opts),
		newKindsCmd(),
		newCacheCmd(opts),
		newHelpdocCmd(),
	)

	return root
}

// Execute runs tlmgr-complete with the given arguments and returns the exit
// status. An empty completion is exit status 1 with its diagnostic already
// written, anything else that goes wrong is reported on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, shell.ErrNoCandidates) {
			fmt.Fprintf(stderr, "tlmgr-complete: %s\n", err)
		}
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies the flag overrides
func (o *options) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error

	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.LoadFromDefault()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("could not load config: %w", err)
	}

	if len(o.cacheDir) > 0 {
		cfg.CacheDir = o.cacheDir
	}
	if o.ttl != 0 {
		cfg.CacheTTL = o.ttl
	}
	if len(o.tlmgr) > 0 {
		cfg.Tlmgr = o.tlmgr
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Main is the entry point for the binary
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
