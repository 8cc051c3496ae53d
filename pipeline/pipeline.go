package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/wasmkit/wasmbundle/build"
	"github.com/wasmkit/wasmbundle/bundle"
	"github.com/wasmkit/wasmbundle/errors"
	"github.com/wasmkit/wasmbundle/inspect"
	"github.com/wasmkit/wasmbundle/toolchain"
)

func verifyError(path, detail string) error {
	return errors.New(errors.PhaseVerify, errors.KindInvalidWasm).
		Path(path).
		Detail(detail).
		Build()
}

// Options configures a Pipeline.
type Options struct {
	// Provisioner, when set, runs before the build. Nil skips the
	// provisioning state entirely (install-tools is its own command).
	Provisioner *toolchain.Provisioner

	// Builder runs the compile step. Nil uses a default builder.
	Builder *build.Builder

	// AssetDir is the static asset source directory merged into the
	// build output. Empty uses bundle.DefaultAssetDir.
	AssetDir string

	// SkipVerify disables the post-merge artifact verification.
	SkipVerify bool

	// OnTransition, when set, observes every state change. Used by the
	// interactive UI.
	OnTransition func(State)
}

// Result is the outcome of a successful run.
type Result struct {
	Artifact *build.Artifact
	Copied   []string
	Report   *inspect.Report
}

// Pipeline executes one bundling run at a time. Concurrent runs against
// the same output directory are unsupported.
type Pipeline struct {
	opts   Options
	merger *bundle.Merger
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	if opts.Builder == nil {
		opts.Builder = build.NewBuilder(build.WithLogger(Logger()))
	}
	if opts.AssetDir == "" {
		opts.AssetDir = bundle.DefaultAssetDir
	}
	return &Pipeline{
		opts:   opts,
		merger: bundle.NewMerger(Logger()),
	}
}

// Run executes provision (optional), build, merge, and verify in order.
// The first failing step ends the run; later steps never start.
func (p *Pipeline) Run(ctx context.Context, cfg build.Config) (*Result, error) {
	m := newMachine()
	log := Logger()

	if p.opts.Provisioner != nil {
		p.enter(m, StateProvisioning)
		if err := p.opts.Provisioner.Ensure(ctx); err != nil {
			return nil, p.fail(m, err)
		}
	}

	p.enter(m, StateBuilding)
	artifact, err := p.opts.Builder.Build(ctx, cfg)
	if err != nil {
		return nil, p.fail(m, err)
	}

	p.enter(m, StateMerging)
	copied, err := p.merger.Merge(ctx, artifact, p.opts.AssetDir)
	if err != nil {
		return nil, p.fail(m, err)
	}

	res := &Result{Artifact: artifact, Copied: copied}

	if !p.opts.SkipVerify {
		p.enter(m, StateVerifying)
		rep, err := inspect.File(ctx, artifact.WasmPath)
		if err != nil {
			return nil, p.fail(m, err)
		}
		if !rep.Valid {
			return nil, p.fail(m, verifyError(artifact.WasmPath, rep.ErrText))
		}
		res.Report = rep
	}

	p.enter(m, StateDone)
	log.Info("bundle complete",
		zap.String("dir", artifact.Dir),
		zap.Int("assets", len(copied)))
	return res, nil
}

// enter transitions the run to the next state. Transition sequencing is an
// internal invariant, so a violation panics rather than returning an error.
func (p *Pipeline) enter(m *machine, s State) {
	if err := m.to(s); err != nil {
		panic(err)
	}
	Logger().Debug("state", zap.String("to", string(s)))
	if p.opts.OnTransition != nil {
		p.opts.OnTransition(s)
	}
}

// fail moves the run to the terminal failed state and returns the step's
// error unchanged so the underlying diagnostic reaches the invoker.
func (p *Pipeline) fail(m *machine, err error) error {
	if terr := m.to(StateFailed); terr != nil {
		panic(terr)
	}
	Logger().Error("run failed", zap.Error(err))
	if p.opts.OnTransition != nil {
		p.opts.OnTransition(StateFailed)
	}
	return err
}
