package build_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wasmkit/wasmbundle/build"
	pkgerrors "github.com/wasmkit/wasmbundle/errors"
)

// packRunner simulates wasm-pack: on success it populates the out dir the
// way the real tool does.
type packRunner struct {
	fail     bool
	manifest string
	noWasm   bool
	argv     []string
	crateDir string
}

func (r *packRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, r.RunStreaming(ctx, nil, nil, name, args...)
}

func (r *packRunner) RunStreaming(_ context.Context, _, stderr io.Writer, name string, args ...string) error {
	r.argv = append([]string{name}, args...)
	if r.fail {
		if stderr != nil {
			io.WriteString(stderr, "error[E0432]: unresolved import\n")
		}
		return errors.New("exit status 101")
	}

	outDir := filepath.Join(r.crateDir, "pkg")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	manifest := r.manifest
	if manifest == "" {
		manifest = `{
  "name": "terminal-donut",
  "version": "0.1.0",
  "files": ["terminal_donut_bg.wasm", "terminal_donut.js", "terminal_donut.d.ts"],
  "module": "terminal_donut.js",
  "types": "terminal_donut.d.ts"
}`
	}
	if err := os.WriteFile(filepath.Join(outDir, "package.json"), []byte(manifest), 0o644); err != nil {
		return err
	}
	if !r.noWasm {
		wasm := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
		if err := os.WriteFile(filepath.Join(outDir, "terminal_donut_bg.wasm"), wasm, 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, "terminal_donut.js"), []byte("export {};\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func newCrate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\nname = \"terminal-donut\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBuild_Success(t *testing.T) {
	crate := newCrate(t)
	runner := &packRunner{crateDir: crate}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	art, err := b.Build(context.Background(), build.DefaultConfig(crate))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if art.Dir != filepath.Join(crate, "pkg") {
		t.Errorf("artifact dir = %q", art.Dir)
	}
	if filepath.Base(art.WasmPath) != "terminal_donut_bg.wasm" {
		t.Errorf("wasm path = %q", art.WasmPath)
	}
	if art.Manifest.Name != "terminal-donut" {
		t.Errorf("manifest name = %q", art.Manifest.Name)
	}
}

func TestBuild_Argv(t *testing.T) {
	crate := newCrate(t)
	runner := &packRunner{crateDir: crate}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	if _, err := b.Build(context.Background(), build.DefaultConfig(crate)); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := strings.Join(runner.argv, " ")
	want := "wasm-pack build " + crate + " --target web --out-dir pkg --no-default-features --features wasm"
	if got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestBuild_CompileFailure(t *testing.T) {
	crate := newCrate(t)
	runner := &packRunner{crateDir: crate, fail: true}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	art, err := b.Build(context.Background(), build.DefaultConfig(crate))
	if err == nil {
		t.Fatal("expected compile failure")
	}
	if art != nil {
		t.Error("failed build must not return an artifact")
	}
	var serr *pkgerrors.Error
	if !errors.As(err, &serr) || serr.Phase != pkgerrors.PhaseCompile {
		t.Errorf("expected compile-phase error, got %v", err)
	}
}

func TestBuild_NotACrate(t *testing.T) {
	dir := t.TempDir() // no Cargo.toml
	b := build.NewBuilder(build.WithRunner(&packRunner{crateDir: dir}), build.WithOutput(io.Discard, io.Discard))

	_, err := b.Build(context.Background(), build.DefaultConfig(dir))
	if err == nil {
		t.Fatal("expected error for missing Cargo.toml")
	}
}

func TestBuild_SilentToolFailure(t *testing.T) {
	// Zero exit but nothing written: must be a compile error, not success.
	crate := newCrate(t)
	runner := &silentRunner{}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	_, err := b.Build(context.Background(), build.DefaultConfig(crate))
	if err == nil {
		t.Fatal("expected error when tool produced no output")
	}
	var serr *pkgerrors.Error
	if !errors.As(err, &serr) || serr.Kind != pkgerrors.KindNotCreated {
		t.Errorf("expected not_created, got %v", err)
	}
}

func TestBuild_MissingWasm(t *testing.T) {
	crate := newCrate(t)
	runner := &packRunner{crateDir: crate, noWasm: true}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	_, err := b.Build(context.Background(), build.DefaultConfig(crate))
	if err == nil {
		t.Fatal("expected error when manifest names a wasm file that is absent")
	}
}

func TestBuild_BadManifest(t *testing.T) {
	crate := newCrate(t)
	runner := &packRunner{crateDir: crate, manifest: "{not json"}
	b := build.NewBuilder(build.WithRunner(runner), build.WithOutput(io.Discard, io.Discard))

	_, err := b.Build(context.Background(), build.DefaultConfig(crate))
	var serr *pkgerrors.Error
	if !errors.As(err, &serr) || serr.Kind != pkgerrors.KindInvalidManifest {
		t.Errorf("expected invalid_manifest, got %v", err)
	}
}

type silentRunner struct{}

func (silentRunner) Run(context.Context, string, ...string) ([]byte, error) { return nil, nil }
func (silentRunner) RunStreaming(context.Context, io.Writer, io.Writer, string, ...string) error {
	return nil
}
