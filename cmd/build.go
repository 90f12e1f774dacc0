package cmd

import (
	"github.com/spf13/cobra"
	"github.com/Travisun/hexo-goose-builder/pkg/builder"
)

// buildCmd runs one production build. A failed full compile aborts the
// whole build with a non-zero exit status.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a one-shot production build of the theme assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := builder.New(builderCtx, "static")
		if err != nil {
			return err
		}
		return o.RunStatic(builderCtx)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
