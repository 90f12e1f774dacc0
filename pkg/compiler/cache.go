package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Travisun/hexo-goose-builder/pkg/pipeline"
)

// ClearScope restricts a cache clear to one artifact family.
type ClearScope int

const (
	// ClearAll removes css and js artifacts plus the manifest.
	ClearAll ClearScope = iota
	// ClearCSS removes only hashed css artifacts.
	ClearCSS
	// ClearJS removes hashed js artifacts and the manifest.
	ClearJS
)

// ClearCache deletes previously emitted artifacts and resets
// hasCompiled. Only files following the content-hash naming convention
// (plus the manifest) are touched; hand-authored neighbors in the
// output directories survive. cssDir and jsDir are the pipeline output
// directories.
func (c *Coordinator) ClearCache(cssDir, jsDir string, scope ClearScope) error {
	var targets []string
	if scope == ClearAll || scope == ClearCSS {
		targets = append(targets, listArtifacts(cssDir, func(name string) bool {
			return pipeline.IsHashedArtifact(name, "components", ".css")
		})...)
	}
	if scope == ClearAll || scope == ClearJS {
		targets = append(targets, listArtifacts(jsDir, func(name string) bool {
			return pipeline.HasHashedSuffix(name, ".js")
		})...)
		targets = append(targets, filepath.Join(jsDir, pipeline.ManifestFileName))
	}

	var removed int
	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to remove artifact %s: %w", path, err)
		}
		removed++
	}

	c.mu.Lock()
	c.hasCompiled = false
	c.mu.Unlock()

	c.logger.Info().Int("removed", removed).Msg("compile cache cleared")
	return nil
}

func listArtifacts(dir string, match func(name string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if match(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
