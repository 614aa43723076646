package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrferreira/mrferreira-web/internal/buildinfo"
)

// Command creates the command that prints build information.
func Command(build *buildinfo.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mrferreira", build.String())
		},
	}
}
