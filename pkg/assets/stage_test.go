package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStageCopiesArtifacts(t *testing.T) {
	themeDir := t.TempDir()
	stagingDir := t.TempDir()

	cssDir := filepath.Join(themeDir, "source", "css")
	jsDir := filepath.Join(themeDir, "source", "js")
	for _, d := range []string{cssDir, jsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		filepath.Join(cssDir, "components.abc12345.css"): "body{}",
		filepath.Join(jsDir, "nav.def67890.js"):          "(function(){})();",
		filepath.Join(jsDir, "components.manifest.json"): "{}",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Stage(themeDir, stagingDir); err != nil {
		t.Fatal(err)
	}

	staged := []string{
		filepath.Join(stagingDir, "css", "components.abc12345.css"),
		filepath.Join(stagingDir, "js", "nav.def67890.js"),
		filepath.Join(stagingDir, "js", "components.manifest.json"),
	}
	for _, path := range staged {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("expected %s to be staged: %v", path, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("staged file %s is empty", path)
		}
	}
}

func TestStageMissingSourceIsNotAnError(t *testing.T) {
	if err := Stage(t.TempDir(), t.TempDir()); err != nil {
		t.Fatalf("missing artifact directories must not fail staging: %v", err)
	}
}
