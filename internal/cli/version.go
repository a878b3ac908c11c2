package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/featlink/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b strings.Builder
			fmt.Fprintf(&b, MsgVersionFormat, version.Version)
			fmt.Fprintf(&b, MsgCommitFormat, version.Commit)
			fmt.Fprintf(&b, MsgBuiltFormat, version.Date)
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
