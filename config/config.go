// Package config loads the optional wasmbundle.toml project file.
//
// The file overrides the baked-in build defaults; a project without one
// gets the fixed web-bundle configuration unchanged.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/go-semver/semver"

	"github.com/wasmkit/wasmbundle/build"
	"github.com/wasmkit/wasmbundle/bundle"
	"github.com/wasmkit/wasmbundle/errors"
	"github.com/wasmkit/wasmbundle/toolchain"
)

// DefaultFileName is the project file looked up in the crate root.
const DefaultFileName = "wasmbundle.toml"

// Project is the tool configuration for one crate.
type Project struct {
	CrateDir string
	AssetDir string
	Build    build.Config
	Tool     toolchain.Tool
}

// fileConfig maps wasmbundle.toml keys onto overrides.
type fileConfig struct {
	CrateDir        string   `toml:"crate_dir"`
	AssetDir        string   `toml:"asset_dir"`
	OutDir          string   `toml:"out_dir"`
	Target          string   `toml:"target"`
	Features        []string `toml:"features"`
	DefaultFeatures bool     `toml:"default_features"`
	Dev             bool     `toml:"dev"`

	Tool struct {
		MinVersion string `toml:"min_version"`
		Locked     *bool  `toml:"locked"`
	} `toml:"tool"`
}

// Default returns the configuration used when no project file exists.
func Default(crateDir string) *Project {
	return &Project{
		CrateDir: crateDir,
		AssetDir: bundle.DefaultAssetDir,
		Build:    build.DefaultConfig(crateDir),
		Tool:     toolchain.WasmPack(),
	}
}

// Load reads the project file at path over the defaults for crateDir.
// A missing file is not an error; a malformed one is fatal.
func Load(path, crateDir string) (*Project, error) {
	p := Default(crateDir)

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, errors.InvalidConfig(path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Path(path).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}

	if meta.IsDefined("crate_dir") {
		p.CrateDir = raw.CrateDir
		p.Build.CrateDir = raw.CrateDir
	}
	if meta.IsDefined("asset_dir") {
		p.AssetDir = raw.AssetDir
	}
	if meta.IsDefined("out_dir") {
		p.Build.OutDir = raw.OutDir
	}
	if meta.IsDefined("target") {
		p.Build.Target = raw.Target
	}
	if meta.IsDefined("features") {
		p.Build.Features = raw.Features
	}
	if meta.IsDefined("default_features") {
		p.Build.DefaultFeatures = raw.DefaultFeatures
	}
	if meta.IsDefined("dev") {
		p.Build.Dev = raw.Dev
	}

	if raw.Tool.MinVersion != "" {
		v, err := semver.NewVersion(strings.TrimPrefix(raw.Tool.MinVersion, "v"))
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
				Path(path).
				Detail("tool.min_version %q is not a semantic version", raw.Tool.MinVersion).
				Cause(err).
				Build()
		}
		p.Tool.MinVersion = v
	}
	if raw.Tool.Locked != nil {
		p.Tool.Locked = *raw.Tool.Locked
	}

	return p, nil
}
