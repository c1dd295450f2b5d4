package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	client "github.com/hsn0918/escli-client"
)

const (
	keyTimeout      = "timeout"
	keyLogLevel     = "log.level"
	keyLogFile      = "log.file"
	keyNoColor      = "no-color"
	keySearchFormat = "search.format"
	keySearchLimit  = "search.limit"
)

type cliOptions struct {
	configFile string
	timeout    time.Duration
	logLevel   string
	logFile    string
	noColor    bool

	searchFormat string
	searchLimit  int

	// dir is where the start-local settings file is looked up.
	dir       string
	lookupEnv func(string) (string, bool)

	prefs   *viper.Viper
	logger  *slog.Logger
	cli     client.Client
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{
		prefs:     viper.New(),
		lookupEnv: os.LookupEnv,
	}

	cmd := &cobra.Command{
		Use:           "escli",
		Short:         "Command line client for Elasticsearch",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.loadPreferences(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			opts.logger = setupLogger(cmd.ErrOrStderr(), opts)
			if skipsConnect(cmd) {
				return nil
			}
			return opts.connect()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Preferences file (default ~/.config/escli/config.yaml)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, keyTimeout, client.DefaultTimeout, "HTTP timeout for requests")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Diagnostics level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write diagnostics to a rotating log file instead of stderr")
	cmd.PersistentFlags().BoolVar(&opts.noColor, keyNoColor, false, "Disable styled output")

	cmd.AddCommand(newPingCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newCreateCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newLoadCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// skipsConnect reports whether cmd runs without a service endpoint.
func skipsConnect(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "completion", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// loadPreferences merges flags, the preferences file and defaults. Flags set on
// the command line win over the file.
func (o *cliOptions) loadPreferences(flags *pflag.FlagSet) error {
	v := o.prefs

	v.SetDefault(keyTimeout, client.DefaultTimeout)
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyNoColor, false)
	v.SetDefault(keySearchFormat, string(formatTable))
	v.SetDefault(keySearchLimit, 0)

	bindings := map[string]string{
		keyTimeout:  keyTimeout,
		keyLogLevel: "log-level",
		keyLogFile:  "log-file",
		keyNoColor:  keyNoColor,
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "escli"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read preferences: %w", err)
		}
	}

	o.timeout = v.GetDuration(keyTimeout)
	o.logLevel = v.GetString(keyLogLevel)
	o.logFile = v.GetString(keyLogFile)
	o.noColor = v.GetBool(keyNoColor)
	o.searchFormat = v.GetString(keySearchFormat)
	o.searchLimit = v.GetInt(keySearchLimit)

	return nil
}

// connect resolves the endpoint once and builds the client.
func (o *cliOptions) connect() error {
	if o.cli != nil {
		return nil
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	endpoint, err := client.Resolver{
		LookupEnv: o.lookupEnv,
		Dir:       o.dir,
		Logger:    o.logger,
	}.Resolve()
	if err != nil {
		return err
	}

	o.cli = buildClient(endpoint, o)
	return nil
}

func (o *cliOptions) close() error {
	var errs []error
	for _, c := range o.closers {
		errs = append(errs, c.Close())
	}
	o.closers = nil
	return errors.Join(errs...)
}
