package cli

import (
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/staticlink"
	"github.com/arthur-debert/featlink/pkg/ui"
	"github.com/spf13/cobra"
)

func newRewriteCmd(g *globals) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "rewrite [cache]",
		Short:   MsgRewriteShort,
		Long:    MsgRewriteLong,
		Example: MsgRewriteExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.rewrite")

			format, err := g.outputFormat()
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig(cacheOverride(args))
			if err != nil {
				return err
			}

			rw := staticlink.NewRewriter(g.fs, cfg.StaticLink())
			path := cfg.Cache.Path
			logger.Info().Str("cache", path).Bool("dryRun", dryRun).Msg("Starting rewrite")

			var report *staticlink.Report
			if dryRun {
				cache, err := linkcache.Read(g.fs, path)
				if err != nil {
					return err
				}
				if _, report, err = rw.Rewrite(cmd.Context(), cache, nil); err != nil {
					return err
				}
			} else {
				if report, err = rw.RewriteFile(cmd.Context(), path, nil); err != nil {
					return err
				}
			}

			return ui.RenderReport(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

// cacheOverride maps an optional positional cache path onto the config
func cacheOverride(args []string) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	return map[string]interface{}{"cache.path": args[0]}
}
