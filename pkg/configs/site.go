package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// siteConfig is the subset of the Hexo _config.yml this tool reads.
type siteConfig struct {
	Theme string `yaml:"theme"`
}

// SiteThemeName reads the active theme name from the site's _config.yml.
func SiteThemeName(siteDir string) (string, error) {
	path := filepath.Join(siteDir, "_config.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read site config %s: %w", path, err)
	}

	var sc siteConfig
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return "", fmt.Errorf("failed to parse site config %s: %w", path, err)
	}
	if sc.Theme == "" {
		return "", fmt.Errorf("site config %s does not declare a theme", path)
	}
	return sc.Theme, nil
}
