package pipeline

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContentHash returns the short content hash used in artifact filenames.
func ContentHash(data []byte) string {
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)[:8]
}

// IsHashedArtifact reports whether name follows the emitted artifact
// convention <stem>.<hash><ext>, e.g. components.1a2b3c4d.css. Anything
// else in the output directory, such as a hand-authored vendor.min.js,
// is not ours and must never be touched.
func IsHashedArtifact(name, stem, ext string) bool {
	base := strings.TrimSuffix(name, ext)
	if base == name {
		return false
	}
	rest, ok := strings.CutPrefix(base, stem+".")
	if !ok {
		return false
	}
	return isHashSegment(rest)
}

// HasHashedSuffix reports whether name ends in the .<hash><ext>
// artifact suffix, regardless of stem.
func HasHashedSuffix(name, ext string) bool {
	base := strings.TrimSuffix(name, ext)
	if base == name {
		return false
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return false
	}
	return isHashSegment(base[i+1:])
}

func isHashSegment(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// hashedArtifacts lists the files in dir emitted under the
// <stem>.<hash><ext> convention.
func hashedArtifacts(dir, stem, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsHashedArtifact(e.Name(), stem, ext) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

// removeHashedArtifacts deletes stale hashed outputs for stem, keeping
// the file at keep. Removal failures are ignored; the next cache clear
// sweeps them.
func removeHashedArtifacts(dir, stem, ext, keep string) {
	for _, m := range hashedArtifacts(dir, stem, ext) {
		if m == keep {
			continue
		}
		_ = os.Remove(m)
	}
}
