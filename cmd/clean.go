package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/Travisun/hexo-goose-builder/pkg/builder"
	"github.com/Travisun/hexo-goose-builder/pkg/compiler"
)

var cleanScopeFlag string

// cleanCmd removes compiled artifacts so the next build starts fresh.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove compiled css/js artifacts and the component manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := builder.New(builderCtx, "static")
		if err != nil {
			return err
		}

		var scope compiler.ClearScope
		switch cleanScopeFlag {
		case "all":
			scope = compiler.ClearAll
		case "css":
			scope = compiler.ClearCSS
		case "js":
			scope = compiler.ClearJS
		default:
			return fmt.Errorf("invalid scope %q, expected all, css or js", cleanScopeFlag)
		}

		cssDir, jsDir := o.ArtifactDirs()
		return o.Coordinator().ClearCache(cssDir, jsDir, scope)
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanScopeFlag, "scope", "all", "artifact scope to clear (all, css, js)")
	rootCmd.AddCommand(cleanCmd)
}
