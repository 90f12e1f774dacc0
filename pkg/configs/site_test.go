package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSiteConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "_config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSiteThemeName(t *testing.T) {
	dir := writeSiteConfig(t, "title: My Blog\ntheme: goose\nlanguage: en\n")

	theme, err := SiteThemeName(dir)
	if err != nil {
		t.Fatal(err)
	}
	if theme != "goose" {
		t.Errorf("expected theme goose, got %q", theme)
	}
}

func TestSiteThemeNameMissingTheme(t *testing.T) {
	dir := writeSiteConfig(t, "title: My Blog\n")

	if _, err := SiteThemeName(dir); err == nil {
		t.Fatal("expected an error when the site config declares no theme")
	}
}

func TestSiteThemeNameMissingFile(t *testing.T) {
	if _, err := SiteThemeName(t.TempDir()); err == nil {
		t.Fatal("expected an error for a missing _config.yml")
	}
}

func TestResolveThemeDirExplicit(t *testing.T) {
	site := t.TempDir()
	themeDir := filepath.Join(site, "themes", "goose")
	if err := os.MkdirAll(themeDir, 0755); err != nil {
		t.Fatal(err)
	}

	b := BuildConfig{SiteDir: site, ThemeDir: filepath.Join("themes", "goose")}
	got, err := b.ResolveThemeDir()
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(themeDir)
	if got != abs {
		t.Errorf("expected %s, got %s", abs, got)
	}
}

func TestResolveThemeDirFromSiteConfig(t *testing.T) {
	site := writeSiteConfig(t, "theme: goose\n")
	if err := os.MkdirAll(filepath.Join(site, "themes", "goose"), 0755); err != nil {
		t.Fatal(err)
	}

	b := BuildConfig{SiteDir: site}
	got, err := b.ResolveThemeDir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "goose" {
		t.Errorf("expected the goose theme dir, got %s", got)
	}
}

func TestResolveThemeDirMissingDirectory(t *testing.T) {
	site := writeSiteConfig(t, "theme: goose\n")

	b := BuildConfig{SiteDir: site}
	if _, err := b.ResolveThemeDir(); err == nil {
		t.Fatal("expected an error for a missing theme directory")
	}
}
