package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Travisun/hexo-goose-builder/pkg/configs"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/executor"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// EsbuildJS bundles each component's entry script with the configured
// esbuild command and writes the component manifest.
type EsbuildJS struct {
	themeDir string
	cfg      configs.JSPipelineConfig
	logger   log2.Logger
}

// NewEsbuildJS builds the JS pipeline adapter.
func NewEsbuildJS(themeDir string, cfg configs.JSPipelineConfig) *EsbuildJS {
	return &EsbuildJS{
		themeDir: themeDir,
		cfg:      cfg,
		logger:   log2.GetLogger(),
	}
}

// Bundle implements the JS contract. Component entry scripts live at
// layout/components/<name>/<name>.js; each is bundled into a hashed
// file under the js output directory and recorded in the manifest.
// A missing bundler toolchain is the non-fatal nil result.
func (e *EsbuildJS) Bundle(ctx context.Context) (*BundleResult, error) {
	if len(e.cfg.Command) == 0 {
		return nil, fmt.Errorf("js pipeline command not configured")
	}
	if !executor.LookPath(e.cfg.Command[0]) {
		e.logger.Warn().Str("command", e.cfg.Command[0]).
			Msg("js pipeline command not found, skipping js bundle")
		return nil, nil
	}

	entries, err := e.discoverEntries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		e.logger.Debug().Msg("no component entry scripts found")
		return &BundleResult{}, nil
	}

	outDir := filepath.Join(e.themeDir, e.cfg.OutputDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create js output directory: %w", err)
	}

	manifest := NewManifest()
	var chunks []string

	for _, entry := range entries {
		bundle, err := e.bundleOne(ctx, entry, outDir)
		if err != nil {
			return nil, fmt.Errorf("failed to bundle component %s: %w", entry.Name, err)
		}
		chunks = append(chunks, bundle)
		manifest.Add(entry.Name, filepath.Base(bundle), entry.Imports)
	}

	if err := manifest.Write(outDir); err != nil {
		return nil, err
	}

	e.logger.Info().Int("components", len(entries)).Msg("js bundled")
	return &BundleResult{Chunks: chunks}, nil
}

// componentEntry is one discovered component script.
type componentEntry struct {
	Name    string
	Path    string
	Imports []string
}

// discoverEntries finds <components_dir>/<name>/<name>.js entries.
func (e *EsbuildJS) discoverEntries() ([]componentEntry, error) {
	root := filepath.Join(e.themeDir, e.cfg.ComponentsDir)
	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read components directory %s: %w", root, err)
	}

	var entries []componentEntry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		entry := filepath.Join(root, d.Name(), d.Name()+".js")
		if _, err := os.Stat(entry); err != nil {
			continue
		}
		entries = append(entries, componentEntry{
			Name:    d.Name(),
			Path:    entry,
			Imports: scanImports(entry),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// bundleOne runs the bundler for one entry and content-hashes its output.
func (e *EsbuildJS) bundleOne(ctx context.Context, entry componentEntry, outDir string) (string, error) {
	tmp, err := os.CreateTemp(outDir, ".bundle-*.js")
	if err != nil {
		return "", fmt.Errorf("failed to create js temp output: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	args := append(append([]string{}, e.cfg.Command[1:]...),
		entry.Path,
		"--bundle",
		"--minify",
		"--format=iife",
		"--outfile="+tmpPath,
	)

	_, stderr, err := executor.NewExecutor(ctx, e.cfg.Command[0], args...).
		WithDir(e.themeDir).
		Run()
	if err != nil {
		e.logger.Error().Str("component", entry.Name).Str("stderr", stderr).Msg("js bundle failed")
		return "", err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read js pipeline output: %w", err)
	}

	outPath := filepath.Join(outDir, fmt.Sprintf("%s.%s.js", entry.Name, ContentHash(data)))
	removeHashedArtifacts(outDir, entry.Name, ".js", outPath)

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write js artifact: %w", err)
	}
	return outPath, nil
}

// scanImports lists the import specifiers of an entry script, best
// effort, for the manifest's import list.
func scanImports(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var imports []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "import ") {
			continue
		}
		if from := strings.LastIndex(line, "from "); from >= 0 {
			spec := strings.Trim(strings.TrimSuffix(strings.TrimSpace(line[from+5:]), ";"), `'"`)
			if spec != "" {
				imports = append(imports, spec)
			}
		}
	}
	return imports
}
