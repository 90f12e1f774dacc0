// Package assets stages compiled artifacts into the generator's output
// directory after a generate pass.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stage copies the hashed css/js artifacts and the manifest from the
// theme's source directories into the staging (public) directory, so
// the emitted pages can reference them. Best-effort: the caller logs
// failures instead of aborting, generation already succeeded.
func Stage(themeDir, stagingDir string) error {
	pairs := []struct{ src, dst string }{
		{filepath.Join(themeDir, "source", "css"), filepath.Join(stagingDir, "css")},
		{filepath.Join(themeDir, "source", "js"), filepath.Join(stagingDir, "js")},
	}

	for _, p := range pairs {
		if err := copyDir(p.src, p.dst); err != nil {
			return err
		}
	}
	return nil
}

// copyDir copies the regular files of src into dst, non-recursively.
// A missing source directory is not an error; that pipeline simply has
// not produced anything yet.
func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read artifact directory %s: %w", src, err)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", dst, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
