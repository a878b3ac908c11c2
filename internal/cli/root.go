package cli

import (
	"fmt"

	"github.com/arthur-debert/featlink/internal/version"
	"github.com/arthur-debert/featlink/pkg/config"
	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/filesystem"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/types"
	"github.com/arthur-debert/featlink/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every subcommand
type globals struct {
	verbosity  int
	configPath string
	format     string

	// fs and skipUserConfig are swapped in tests
	fs             types.FS
	skipUserConfig bool
}

// loadConfig layers the configuration files with the given flag overrides
func (g *globals) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigPath:     g.configPath,
		Overrides:      overrides,
		SkipUserConfig: g.skipUserConfig,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

func (g *globals) outputFormat() (ui.Format, error) {
	return ui.ParseFormat(g.format)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globals{fs: filesystem.NewOS()})
}

func newRootCmd(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "featlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", ui.FormatAuto.String(), MsgFlagFormat)

	rootCmd.AddCommand(newConfigureCmd(g))
	rootCmd.AddCommand(newRewriteCmd(g))
	rootCmd.AddCommand(newShowCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
