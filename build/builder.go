package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wasmkit/wasmbundle/errors"
	"github.com/wasmkit/wasmbundle/shell"
)

// toolName is the packaging tool the builder shells out to.
const toolName = "wasm-pack"

// Artifact describes the output of one successful build. It is only
// produced by Builder.Build, so holding one proves the compile step passed.
type Artifact struct {
	// Dir is the populated output directory.
	Dir string

	// WasmPath is the compiled wasm module inside Dir.
	WasmPath string

	// Manifest is the parsed package manifest.
	Manifest *Manifest
}

// Builder runs wasm-pack builds.
type Builder struct {
	runner shell.Runner
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRunner replaces the command runner. Used by tests.
func WithRunner(r shell.Runner) BuilderOption {
	return func(b *Builder) { b.runner = r }
}

// WithOutput attaches the tool's stdout and stderr streams so compiler
// diagnostics reach the invoker verbatim.
func WithOutput(stdout, stderr io.Writer) BuilderOption {
	return func(b *Builder) { b.stdout, b.stderr = stdout, stderr }
}

// WithLogger sets the builder's logger.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a builder backed by the local wasm-pack.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		runner: shell.ExecRunner{},
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build compiles the crate to WebAssembly and returns the artifact.
// It blocks until wasm-pack exits; any internal parallelism of the
// compiler is finished before Build returns.
func (b *Builder) Build(ctx context.Context, cfg Config) (*Artifact, error) {
	if _, err := os.Stat(filepath.Join(cfg.CrateDir, "Cargo.toml")); err != nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindMissingDir).
			Path(cfg.CrateDir).
			Detail("no Cargo.toml; not a crate root").
			Cause(err).
			Build()
	}

	args := cfg.Args()
	b.log.Info("compiling crate",
		zap.String("crate", cfg.CrateDir),
		zap.String("target", cfg.Target),
		zap.Strings("features", cfg.Features))
	b.log.Debug("tool invocation",
		zap.String("tool", toolName),
		zap.String("args", strings.Join(args, " ")))

	if err := b.runner.RunStreaming(ctx, b.stdout, b.stderr, toolName, args...); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Canceled(errors.PhaseCompile, ctx.Err())
		}
		return nil, errors.ExecFailed(errors.PhaseCompile, toolName, shell.ExitCode(err), err)
	}

	return b.collect(cfg)
}

// collect turns a zero-exit build into an Artifact, treating missing
// outputs as a compile failure so a silently broken tool cannot produce a
// bundle that looks complete.
func (b *Builder) collect(cfg Config) (*Artifact, error) {
	outDir := cfg.OutPath()
	info, err := os.Stat(outDir)
	if err != nil || !info.IsDir() {
		return nil, errors.NotCreated(errors.PhaseCompile, outDir)
	}

	manifest, err := ReadManifest(outDir)
	if err != nil {
		return nil, err
	}

	wasmFile := manifest.WasmFile()
	if wasmFile == "" {
		if wasmFile, err = findWasm(outDir); err != nil {
			return nil, err
		}
	}
	wasmPath := filepath.Join(outDir, wasmFile)
	if _, err := os.Stat(wasmPath); err != nil {
		return nil, errors.NotCreated(errors.PhaseCompile, wasmPath)
	}

	b.log.Info("build complete",
		zap.String("package", manifest.Name),
		zap.String("version", manifest.Version),
		zap.String("wasm", wasmPath))

	return &Artifact{
		Dir:      outDir,
		WasmPath: wasmPath,
		Manifest: manifest,
	}, nil
}

// findWasm scans the out dir for a wasm module when the manifest does not
// name one.
func findWasm(outDir string) (string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", errors.IO(errors.PhaseCompile, outDir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".wasm") {
			return e.Name(), nil
		}
	}
	return "", errors.New(errors.PhaseCompile, errors.KindNotCreated).
		Path(outDir).
		Detail("no wasm module in build output").
		Build()
}
