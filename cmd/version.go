package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/version"
)

var versionJSONFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetVersion()
		if versionJSONFlag {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSONFlag, "json", false, "print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}
