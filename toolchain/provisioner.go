package toolchain

import (
	"context"
	"os/exec"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/wasmkit/wasmbundle/errors"
	"github.com/wasmkit/wasmbundle/shell"
)

// Provisioner ensures a Tool is installed and satisfies its version pin.
type Provisioner struct {
	tool     Tool
	runner   shell.Runner
	lookPath func(string) (string, error)
	log      *zap.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRunner replaces the command runner. Used by tests.
func WithRunner(r shell.Runner) Option {
	return func(p *Provisioner) { p.runner = r }
}

// WithLookPath replaces the PATH lookup. Used by tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Provisioner) { p.lookPath = fn }
}

// WithLogger sets the provisioner's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provisioner) { p.log = l }
}

// NewProvisioner creates a provisioner for the given tool.
func NewProvisioner(tool Tool, opts ...Option) *Provisioner {
	p := &Provisioner{
		tool:     tool,
		runner:   shell.ExecRunner{},
		lookPath: exec.LookPath,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ensure makes the tool available, installing it when absent or below the
// pinned minimum version. It is a no-op when the check already passes.
func (p *Provisioner) Ensure(ctx context.Context) error {
	ok, _, err := p.satisfied(ctx)
	if err != nil {
		return err
	}
	if ok {
		p.log.Debug("tool already provisioned", zap.String("tool", p.tool.Name))
		return nil
	}

	if err := p.Install(ctx); err != nil {
		return err
	}

	// Recheck after install so a registry serving a stale version is
	// surfaced as a provisioning failure, not a later compile failure.
	ok, have, err := p.satisfied(ctx)
	if err != nil {
		return err
	}
	if !ok {
		if have != nil {
			return errors.VersionMismatch(p.tool.Name, have.String(), p.tool.MinVersion.String())
		}
		return errors.ToolMissing(errors.PhaseProvision, p.tool.Name)
	}
	return nil
}

// Install runs cargo install for the tool's crate.
func (p *Provisioner) Install(ctx context.Context) error {
	args := p.tool.InstallArgs()
	p.log.Info("installing tool",
		zap.String("tool", p.tool.Name),
		zap.Strings("cargo_args", args))

	out, err := p.runner.Run(ctx, "cargo", args...)
	if err != nil {
		return errors.New(errors.PhaseProvision, errors.KindInstallFailed).
			Tool(p.tool.Name).
			ExitCode(shell.ExitCode(err)).
			Detail("%s", string(out)).
			Cause(err).
			Build()
	}
	return nil
}

// satisfied reports whether the tool is on PATH and meets the version pin,
// returning the installed version when one could be read. A missing tool is
// not an error here; it means an install is needed.
func (p *Provisioner) satisfied(ctx context.Context) (bool, *semver.Version, error) {
	if _, err := p.lookPath(p.tool.Name); err != nil {
		return false, nil, nil
	}

	if p.tool.MinVersion == nil {
		return true, nil, nil
	}

	out, err := p.runner.Run(ctx, p.tool.Name, "--version")
	if err != nil {
		return false, nil, errors.New(errors.PhaseProvision, errors.KindExecFailed).
			Tool(p.tool.Name).
			ExitCode(shell.ExitCode(err)).
			Detail("querying version").
			Cause(err).
			Build()
	}

	have, err := ParseVersion(out)
	if err != nil {
		return false, nil, errors.New(errors.PhaseProvision, errors.KindVersionMismatch).
			Tool(p.tool.Name).
			Cause(err).
			Build()
	}

	if have.LessThan(*p.tool.MinVersion) {
		p.log.Info("tool below pinned version",
			zap.String("tool", p.tool.Name),
			zap.String("have", have.String()),
			zap.String("want", p.tool.MinVersion.String()))
		return false, have, nil
	}
	return true, have, nil
}
