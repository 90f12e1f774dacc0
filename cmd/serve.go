package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/Travisun/hexo-goose-builder/pkg/builder"
)

// serveCmd runs server mode: initial compile, file watcher, live
// reload, and a generate pass per quiet window.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch the theme and recompile on change with live reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := builder.New(builderCtx, "server")
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(builderCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return o.RunServer(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
