package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/wasmkit/wasmbundle/errors"
)

// ManifestName is the package manifest wasm-pack writes into the out dir.
const ManifestName = "package.json"

// Manifest is the subset of the wasm-pack package manifest the bundler
// reads to locate artifacts.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Files   []string `json:"files"`
	Module  string   `json:"module"`
	Types   string   `json:"types"`
}

// ReadManifest loads and parses the manifest inside the output directory.
func ReadManifest(outDir string) (*Manifest, error) {
	path := filepath.Join(outDir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidManifest(path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidManifest(path, err)
	}
	if m.Name == "" {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidManifest).
			Path(path).
			Detail("manifest has no package name").
			Build()
	}
	return &m, nil
}

// WasmFile returns the manifest entry naming the compiled wasm module,
// or "" when the manifest lists none.
func (m *Manifest) WasmFile() string {
	for _, f := range m.Files {
		if strings.HasSuffix(f, ".wasm") {
			return f
		}
	}
	return ""
}
