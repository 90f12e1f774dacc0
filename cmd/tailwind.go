package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const tailwindConfigTemplate = `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: [
    './themes/%[1]s/layout/**/*.ejs',
    './themes/%[1]s/layout/**/*.js',
  ],
  theme: {
    extend: {},
  },
  plugins: [],
};
`

const postcssConfigTemplate = `module.exports = {
  plugins: {
    tailwindcss: {},
    autoprefixer: {},
  },
};
`

const tailwindEntryCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;
`

// tailwindInitCmd scaffolds the Tailwind/PostCSS configuration at the
// site root plus the entry stylesheet under the theme. Existing files
// are never overwritten.
var tailwindInitCmd = &cobra.Command{
	Use:   "tailwind-init",
	Short: "Scaffold tailwind.config.js, postcss.config.js and the entry css",
	RunE: func(cmd *cobra.Command, args []string) error {
		build := &builderCtx.Config.Build

		theme, err := build.ResolveThemeDir()
		if err != nil {
			return err
		}
		themeName := filepath.Base(theme)

		files := []struct {
			path    string
			content string
		}{
			{filepath.Join(build.SiteDir, build.CSS.ConfigFile), fmt.Sprintf(tailwindConfigTemplate, themeName)},
			{filepath.Join(build.SiteDir, "postcss.config.js"), postcssConfigTemplate},
			{filepath.Join(theme, build.CSS.Input), tailwindEntryCSS},
		}

		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				log.Warn().Str("file", f.path).Msg("already exists, leaving untouched")
				continue
			}
			if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
			}
			if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.path, err)
			}
			log.Info().Str("file", f.path).Msg("created")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Tailwind configuration initialized.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tailwindInitCmd)
}
