package cli

import (
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/ui"
	"github.com/spf13/cobra"
)

func newShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show [cache]",
		Short: MsgShowShort,
		Long:  MsgShowLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := g.outputFormat()
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig(cacheOverride(args))
			if err != nil {
				return err
			}

			cache, err := linkcache.Read(g.fs, cfg.Cache.Path)
			if err != nil {
				return err
			}
			return ui.RenderCache(cmd.OutOrStdout(), cfg.Cache.Path, cache, format)
		},
	}
}
