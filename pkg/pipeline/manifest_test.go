package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest()
	m.Add("gallery", "gallery.abc12345.js", []string{"./lightbox.js"})
	m.Add("nav", "nav.def67890.js", nil)

	if err := m.Write(dir); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}

	gallery, ok := loaded.Components["gallery"]
	if !ok {
		t.Fatal("gallery entry missing")
	}
	if gallery.Bundle != "gallery.abc12345.js" {
		t.Errorf("unexpected bundle %q", gallery.Bundle)
	}
	if len(gallery.Imports) != 1 || gallery.Imports[0] != "./lightbox.js" {
		t.Errorf("unexpected imports %v", gallery.Imports)
	}

	nav := loaded.Components["nav"]
	if nav.Imports == nil || len(nav.Imports) != 0 {
		t.Errorf("nil imports must serialize as an empty list, got %v", nav.Imports)
	}
}

func TestScanImports(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "gallery.js")
	src := `import { Lightbox } from './lightbox.js';
import helpers from "../shared/helpers.js"
const x = 1; // import nothing here
`
	if err := os.WriteFile(entry, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	imports := scanImports(entry)
	expected := []string{"./lightbox.js", "../shared/helpers.js"}
	if len(imports) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, imports)
	}
	for i := range expected {
		if imports[i] != expected[i] {
			t.Errorf("import %d: expected %q, got %q", i, expected[i], imports[i])
		}
	}
}

func TestContentHashIsStable(t *testing.T) {
	a := ContentHash([]byte("body{}"))
	b := ContentHash([]byte("body{}"))
	if a != b {
		t.Errorf("hash must be deterministic: %s vs %s", a, b)
	}
	if len(a) != 8 {
		t.Errorf("expected an 8-char short hash, got %q", a)
	}
	if a == ContentHash([]byte("main{}")) {
		t.Error("different content must hash differently")
	}
}
