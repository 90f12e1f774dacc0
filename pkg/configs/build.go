package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BuildConfig describes the theme tree, the compile pipelines and the
// development server behavior.
type BuildConfig struct {
	// SiteDir is the Hexo site root. ThemeDir is resolved against it when
	// relative; empty means "read the theme name from _config.yml".
	SiteDir  string `mapstructure:"site_dir"`
	ThemeDir string `mapstructure:"theme_dir"`

	// StagingDir is where the generator emits the final site (hexo's
	// public/). Compiled artifacts are copied there after generation.
	StagingDir string `mapstructure:"staging_dir"`

	// GenerateCommand runs the host generator for one pass.
	GenerateCommand []string `mapstructure:"generate_command"`

	DebounceMs int `mapstructure:"debounce_ms"`

	Strategy StrategyPatterns  `mapstructure:"strategy"`
	CSS      CSSPipelineConfig `mapstructure:"css"`
	JS       JSPipelineConfig  `mapstructure:"js"`
	Reload   ReloadConfig      `mapstructure:"reload"`
}

// StrategyPatterns holds the user half of the change-classification
// tables. User patterns are appended to the built-in defaults, never
// replacing them.
type StrategyPatterns struct {
	Ignore      []string `mapstructure:"ignore"`
	JSOnly      []string `mapstructure:"js_only"`
	FullCompile []string `mapstructure:"full_compile"`
	CSSOnly     []string `mapstructure:"css_only"`
	// Watch is the legacy freeform watch list; any match recompiles fully.
	Watch []string `mapstructure:"watch"`
}

// CSSPipelineConfig configures the external Tailwind/PostCSS run.
type CSSPipelineConfig struct {
	Command    []string `mapstructure:"command"`
	Input      string   `mapstructure:"input"`       // entry css, relative to theme dir
	OutputDir  string   `mapstructure:"output_dir"`  // relative to theme dir
	ConfigFile string   `mapstructure:"config_file"` // tailwind config, relative to site dir
}

// JSPipelineConfig configures the external esbuild run.
type JSPipelineConfig struct {
	Command       []string `mapstructure:"command"`
	ComponentsDir string   `mapstructure:"components_dir"` // relative to theme dir
	OutputDir     string   `mapstructure:"output_dir"`     // relative to theme dir
}

// ReloadConfig configures the live-reload websocket server.
type ReloadConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

func setBuildConfigDefaults() {
	viper.SetDefault("build.site_dir", ".")
	viper.SetDefault("build.theme_dir", "")
	viper.SetDefault("build.staging_dir", "public")
	viper.SetDefault("build.generate_command", []string{"hexo", "generate"})
	viper.SetDefault("build.debounce_ms", 300)

	viper.SetDefault("build.strategy.ignore", []string{})
	viper.SetDefault("build.strategy.js_only", []string{})
	viper.SetDefault("build.strategy.full_compile", []string{})
	viper.SetDefault("build.strategy.css_only", []string{})
	viper.SetDefault("build.strategy.watch", []string{})

	viper.SetDefault("build.css.command", []string{"npx", "tailwindcss"})
	viper.SetDefault("build.css.input", "source/css/tailwind.css")
	viper.SetDefault("build.css.output_dir", "source/css")
	viper.SetDefault("build.css.config_file", "tailwind.config.js")

	viper.SetDefault("build.js.command", []string{"npx", "esbuild"})
	viper.SetDefault("build.js.components_dir", "layout/components")
	viper.SetDefault("build.js.output_dir", "source/js")

	viper.SetDefault("build.reload.enabled", true)
	viper.SetDefault("build.reload.host", "127.0.0.1")
	viper.SetDefault("build.reload.port", 4001)
}

// validate catches configuration errors that must abort startup.
func (b *BuildConfig) validate() error {
	if b.SiteDir == "" {
		return fmt.Errorf("build.site_dir must not be empty")
	}
	if b.DebounceMs < 0 {
		return fmt.Errorf("build.debounce_ms must not be negative: %d", b.DebounceMs)
	}
	if len(b.GenerateCommand) == 0 {
		return fmt.Errorf("build.generate_command must name a command")
	}
	return nil
}

// ResolveThemeDir returns the absolute theme directory, reading the
// active theme from the site _config.yml when theme_dir is unset.
func (b *BuildConfig) ResolveThemeDir() (string, error) {
	if b.ThemeDir != "" {
		dir := b.ThemeDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(b.SiteDir, dir)
		}
		return verifyThemeDir(dir)
	}

	theme, err := SiteThemeName(b.SiteDir)
	if err != nil {
		return "", err
	}
	return verifyThemeDir(filepath.Join(b.SiteDir, "themes", theme))
}

func verifyThemeDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve theme directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("theme directory %s not usable: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("theme path %s is not a directory", abs)
	}
	return abs, nil
}
