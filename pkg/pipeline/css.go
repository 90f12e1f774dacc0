package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Travisun/hexo-goose-builder/pkg/configs"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/executor"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// TailwindCSS runs the configured Tailwind/PostCSS command and writes a
// content-hashed stylesheet into the theme's css output directory.
type TailwindCSS struct {
	themeDir string
	siteDir  string
	cfg      configs.CSSPipelineConfig
	logger   log2.Logger
}

// NewTailwindCSS builds the CSS pipeline adapter.
func NewTailwindCSS(siteDir, themeDir string, cfg configs.CSSPipelineConfig) *TailwindCSS {
	return &TailwindCSS{
		themeDir: themeDir,
		siteDir:  siteDir,
		cfg:      cfg,
		logger:   log2.GetLogger(),
	}
}

// Compile implements the CSS contract. The external command compiles
// into a temp file; the result is content-hashed into
// components.<hash>.css and superseded hashed outputs are removed.
func (t *TailwindCSS) Compile(ctx context.Context, opts CompileOptions) (string, error) {
	if len(t.cfg.Command) == 0 {
		return "", fmt.Errorf("css pipeline command not configured")
	}
	if !executor.LookPath(t.cfg.Command[0]) {
		// Missing toolchain is the documented non-fatal case.
		t.logger.Warn().Str("command", t.cfg.Command[0]).
			Msg("css pipeline command not found, skipping css compile")
		return "", nil
	}

	input := filepath.Join(t.themeDir, t.cfg.Input)
	if _, err := os.Stat(input); err != nil {
		return "", fmt.Errorf("css entry %s not readable: %w", input, err)
	}

	outDir := filepath.Join(t.themeDir, t.cfg.OutputDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create css output directory: %w", err)
	}

	if !opts.ForceRecompile {
		if existing := hashedArtifacts(outDir, "components", ".css"); len(existing) == 1 {
			t.logger.Debug().Str("output", existing[0]).Msg("reusing existing css artifact")
			return existing[0], nil
		}
	}

	tmp, err := os.CreateTemp(outDir, ".tailwind-*.css")
	if err != nil {
		return "", fmt.Errorf("failed to create css temp output: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	args := append(append([]string{}, t.cfg.Command[1:]...),
		"--input", input,
		"--output", tmpPath,
		"--config", filepath.Join(t.siteDir, t.cfg.ConfigFile),
	)
	if opts.ForceRecompile {
		args = append(args, "--minify")
	}

	_, stderr, err := executor.NewExecutor(ctx, t.cfg.Command[0], args...).
		WithDir(t.siteDir).
		Run()
	if err != nil {
		t.logger.Error().Str("stderr", stderr).Msg("css pipeline failed")
		return "", err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read css pipeline output: %w", err)
	}

	hash := ContentHash(data)
	outPath := filepath.Join(outDir, fmt.Sprintf("components.%s.css", hash))

	removeHashedArtifacts(outDir, "components", ".css", outPath)

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write css artifact: %w", err)
	}

	t.logger.Info().Str("output", outPath).Int("bytes", len(data)).Msg("css compiled")
	return outPath, nil
}
