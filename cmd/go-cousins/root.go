package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cousins/internal/config"
)

const cmdServe = "serve"

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	configPath string
	dataFile   string
	port       string
	lang       string
	debug      bool

	logToFile bool
	logCloser io.Closer
}

func (o *cliOptions) closeLog() {
	if o.logCloser != nil {
		_ = o.logCloser.Close() // Best effort close
		o.logCloser = nil
	}
}

// settings loads the settings file and applies the flags the user set.
func (o *cliOptions) settings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.LoadSettings(o.configPath)
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed(config.FlagData) {
		s.DataFile = o.dataFile
	}
	if flags.Changed(config.FlagPort) {
		s.Port = o.port
	}
	if flags.Changed(config.FlagLang) {
		s.Language = o.lang
	}

	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CommandName,
		Short:         config.CmdShortRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Only the long-running server logs to stdout; the other commands print results there.
			console := cmd.ErrOrStderr()
			if cmd.Name() == cmdServe {
				console = cmd.OutOrStdout()
			}
			opts.closeLog()
			opts.logCloser = setupLogging(console, opts.debug, opts.logToFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	pf.StringVar(&opts.dataFile, config.FlagData, config.DefaultDataFile, config.FlagDescData)
	pf.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	pf.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	pf.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)

	root.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newImportCmd(),
		newUpcomingCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
