package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	bctx "github.com/Travisun/hexo-goose-builder/pkg/context"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/version"
)

var (
	builderCtx *bctx.BuilderContext
	log        log2.Logger

	globalFlags       = bctx.GlobalFlags{}
	versionEnableFlag bool
)

// rootCmd represents the base command when called without any subcommands.
// An unknown subcommand falls through to the help listing and exits 0.
var rootCmd = &cobra.Command{
	Use:   "goose-builder",
	Short: "goose-builder compiles and watches the goose Hexo theme",
	Long: `goose-builder is the build orchestrator for the goose Hexo theme.
It classifies file changes into compile strategies, debounces change
bursts, runs the CSS/JS pipelines and notifies live-reload clients.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionEnableFlag {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
			return
		}
		if len(args) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Unknown command: %s\n\n", args[0])
		}
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		ctx, err := bctx.InitBuilderContext(globalFlags)
		if err != nil {
			return err
		}
		builderCtx = ctx
		log = ctx.Logger
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "config file")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable debug mode (prints additional information)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "V", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "suppress all output except errors")
	rootCmd.Flags().BoolVarP(&versionEnableFlag, "version", "v", false, "show version information")
}
