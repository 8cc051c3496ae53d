package build

import "path/filepath"

// Default configuration baked into the build-wasm command. The feature
// selection picks the wasm-bindgen code path of the crate; default features
// stay off so terminal-only dependencies are not compiled for the web.
const (
	DefaultTarget  = "web"
	DefaultFeature = "wasm"
	DefaultOutDir  = "pkg"
)

// Config is the immutable option set for one wasm-pack invocation.
type Config struct {
	// CrateDir is the root of the Rust crate to compile.
	CrateDir string

	// Target is the wasm-pack target environment, e.g. "web" for output
	// consumable directly by a page without a bundler loader.
	Target string

	// Features is the named feature set enabled for the build.
	Features []string

	// DefaultFeatures controls cargo's default feature set.
	DefaultFeatures bool

	// Dev builds the debug profile instead of release.
	Dev bool

	// OutDir is the package output directory, relative to CrateDir.
	OutDir string
}

// DefaultConfig returns the fixed web-bundle configuration for a crate.
func DefaultConfig(crateDir string) Config {
	return Config{
		CrateDir: crateDir,
		Target:   DefaultTarget,
		Features: []string{DefaultFeature},
		OutDir:   DefaultOutDir,
	}
}

// Args returns the wasm-pack argument vector for the configuration.
// Feature flags are forwarded to cargo by wasm-pack itself.
func (c Config) Args() []string {
	args := []string{"build", c.CrateDir, "--target", c.Target, "--out-dir", c.OutDir}
	if c.Dev {
		args = append(args, "--dev")
	}
	if !c.DefaultFeatures {
		args = append(args, "--no-default-features")
	}
	for _, f := range c.Features {
		args = append(args, "--features", f)
	}
	return args
}

// OutPath returns the absolute or crate-relative path of the output
// directory the build populates.
func (c Config) OutPath() string {
	return filepath.Join(c.CrateDir, c.OutDir)
}
