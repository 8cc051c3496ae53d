package toolchain

import (
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Tool describes an installable command-line tool.
type Tool struct {
	// Name is the executable looked up on PATH, e.g. "wasm-pack".
	Name string

	// Crate is the cargo crate that provides the executable.
	Crate string

	// MinVersion, when set, is the lowest acceptable installed version.
	MinVersion *semver.Version

	// Locked installs with cargo's --locked flag so dependency versions
	// come from the crate's lockfile and two environments resolve the
	// same build.
	Locked bool
}

// WasmPack returns the wasm-pack tool with locked installs enabled.
func WasmPack() Tool {
	return Tool{
		Name:   "wasm-pack",
		Crate:  "wasm-pack",
		Locked: true,
	}
}

// InstallArgs returns the cargo argument vector that installs the tool.
func (t Tool) InstallArgs() []string {
	args := []string{"install", t.Crate}
	if t.Locked {
		args = append(args, "--locked")
	}
	if t.MinVersion != nil {
		args = append(args, "--version", t.MinVersion.String())
	}
	return args
}

// ParseVersion extracts the semantic version from a tool's --version
// output, e.g. "wasm-pack 0.13.1" or "wasm-pack-nightly 0.13.1 (abc123)".
func ParseVersion(out []byte) (*semver.Version, error) {
	fields := strings.Fields(string(out))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "v")
		if v, err := semver.NewVersion(f); err == nil {
			return v, nil
		}
	}
	return nil, &parseError{raw: strings.TrimSpace(string(out))}
}

type parseError struct {
	raw string
}

func (e *parseError) Error() string {
	return "no semantic version in output: " + e.raw
}
