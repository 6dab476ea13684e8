package cli

import (
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm"
	"github.com/ieee0824/wordhmm/internal/config"
	"github.com/ieee0824/wordhmm/internal/store"
	"github.com/spf13/cobra"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version    string
	configPath string
	flags      config.Config
	cfg        *config.Config
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:           "wordhmm",
		Short:         "HMM word and connected-word recognizer",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	pf := c.rootCmd.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "YAML or TOML configuration file")
	pf.StringVar(&c.flags.HMM, "hmm", "", "HMM definition file (text or .gob)")
	pf.StringVar(&c.flags.Dictionary, "dict", "", "pronunciation dictionary")
	pf.StringVar(&c.flags.Bigram, "bigram", "", "word bigram file or .arpa language model")
	pf.IntVar(&c.flags.Workers, "workers", 0, "files processed in parallel")
	pf.StringVar(&c.flags.Database, "db", "", "SQLite results database")
	pf.BoolVar(&c.flags.CMN, "cmn", false, "apply cepstral mean normalization")
	pf.AddGoFlagSet(flag.CommandLine)

	c.rootCmd.AddCommand(c.newClassifyCommand())
	c.rootCmd.AddCommand(c.newDecodeCommand())
	c.rootCmd.AddCommand(c.newAlignCommand())
	c.rootCmd.AddCommand(c.newInspectCommand())
	c.rootCmd.AddCommand(c.newReportCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

// loadConfig reads the configuration file, if any, and applies the flags
// given on the command line over it.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("hmm") {
		cfg.HMM = c.flags.HMM
	}
	if flags.Changed("dict") {
		cfg.Dictionary = c.flags.Dictionary
	}
	if flags.Changed("bigram") {
		cfg.Bigram = c.flags.Bigram
	}
	if flags.Changed("workers") {
		cfg.Workers = c.flags.Workers
	}
	if flags.Changed("db") {
		cfg.Database = c.flags.Database
	}
	if flags.Changed("cmn") {
		cfg.CMN = c.flags.CMN
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.cfg = cfg
	glog.V(1).Infof("config: hmm=%s dictionary=%s bigram=%s workers=%d", cfg.HMM, cfg.Dictionary, cfg.Bigram, cfg.Workers)
	return nil
}

// newRecognizer loads the models named by the configuration. Bigrams are
// only loaded for continuous recognition.
func (c *CLI) newRecognizer(withBigrams bool) (*wordhmm.Recognizer, error) {
	bigram := ""
	if withBigrams {
		bigram = c.cfg.Bigram
	}
	return wordhmm.NewRecognizer(c.cfg.HMM, c.cfg.Dictionary, bigram,
		wordhmm.WithShortPause(c.cfg.ShortPause),
		wordhmm.WithSilenceModel(c.cfg.Silence),
		wordhmm.WithCMN(c.cfg.CMN),
	)
}

// openStore opens the results database, or returns nil when none is set.
func (c *CLI) openStore() (*store.Store, error) {
	if c.cfg.Database == "" {
		return nil, nil
	}
	return store.Open(c.cfg.Database)
}
