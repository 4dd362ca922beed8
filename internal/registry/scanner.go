package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// scanDir lists *.onnx files directly inside dir (non-recursive, matching
// the original registry's flat layout) and returns their absolute paths,
// sorted by filename for a deterministic load order.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".onnx") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// nameFromPath derives a model's registry name from its file path: the
// base filename without the .onnx extension.
func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
