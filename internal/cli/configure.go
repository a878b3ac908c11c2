package cli

import (
	"fmt"

	"github.com/arthur-debert/featlink/pkg/configure"
	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/ui"
	"github.com/spf13/cobra"
)

func newConfigureCmd(g *globals) *cobra.Command {
	var (
		declarations string
		cachePath    string
		seedPath     string
		enable       []string
		disable      []string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:     "configure",
		Short:   MsgConfigureShort,
		Long:    MsgConfigureLong,
		Example: MsgConfigureExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.configure")

			format, err := g.outputFormat()
			if err != nil {
				return err
			}

			flagOverrides := map[string]interface{}{}
			if declarations != "" {
				flagOverrides["declarations.path"] = declarations
			}
			if cachePath != "" {
				flagOverrides["cache.path"] = cachePath
			}
			cfg, err := g.loadConfig(flagOverrides)
			if err != nil {
				return err
			}

			overrides := cfg.FeatureOverrides()
			if err := addOverrides(overrides, enable, features.OverrideEnable); err != nil {
				return err
			}
			if err := addOverrides(overrides, disable, features.OverrideDisable); err != nil {
				return err
			}

			opts := configure.Options{
				FS:               g.fs,
				DeclarationsPath: cfg.Declarations.Path,
				Overrides:        overrides,
				LibDirs:          cfg.Probe.LibDirs,
			}
			if !dryRun {
				opts.CachePath = cfg.Cache.Path
			}
			if seedPath != "" {
				seed, err := linkcache.Read(g.fs, seedPath)
				if err != nil {
					return fmt.Errorf(MsgErrSeedCache, err)
				}
				opts.Seed = seed
			}

			logger.Info().
				Str("declarations", opts.DeclarationsPath).
				Str("cache", opts.CachePath).
				Bool("dryRun", dryRun).
				Int("overrides", len(overrides)).
				Msg("Starting configure")

			result, runErr := configure.Run(cmd.Context(), opts)
			if result == nil {
				return runErr
			}
			if err := ui.RenderFeatures(cmd.OutOrStdout(), result.State, runErr, format); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&declarations, "declarations", "d", "", MsgFlagDeclarations)
	cmd.Flags().StringVarP(&cachePath, "cache", "c", "", MsgFlagCache)
	cmd.Flags().StringVar(&seedPath, "seed", "", MsgFlagSeed)
	cmd.Flags().StringSliceVar(&enable, "enable", nil, MsgFlagEnable)
	cmd.Flags().StringSliceVar(&disable, "disable", nil, MsgFlagDisable)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

// addOverrides records flag overrides; flags win over configured ones
func addOverrides(dst map[string]features.Override, names []string, o features.Override) error {
	for _, name := range names {
		if name == "" {
			return fmt.Errorf(MsgErrOverride, name)
		}
		dst[name] = o
	}
	return nil
}
