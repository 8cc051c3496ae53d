package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which pipeline step the error occurred in
type Phase string

const (
	PhaseProvision Phase = "provision" // toolchain installation
	PhaseConfig    Phase = "config"    // project file loading
	PhaseCompile   Phase = "compile"   // wasm-pack build
	PhaseMerge     Phase = "merge"     // asset merge into the bundle
	PhaseVerify    Phase = "verify"    // wasm artifact validation
	PhaseInspect   Phase = "inspect"   // standalone artifact inspection
)

// Kind categorizes the error
type Kind string

const (
	KindToolMissing     Kind = "tool_missing"
	KindInstallFailed   Kind = "install_failed"
	KindVersionMismatch Kind = "version_mismatch"
	KindExecFailed      Kind = "exec_failed"
	KindMissingDir      Kind = "missing_dir"
	KindNotCreated      Kind = "not_created"
	KindInvalidManifest Kind = "invalid_manifest"
	KindInvalidWasm     Kind = "invalid_wasm"
	KindInvalidConfig   Kind = "invalid_config"
	KindIOFailed        Kind = "io_failed"
	KindCanceled        Kind = "canceled"
)

// Error is the structured error type used throughout the tool
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Tool     string
	Path     string
	Detail   string
	ExitCode int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Tool != "" {
		b.WriteString(": ")
		b.WriteString(e.Tool)
		if e.ExitCode != 0 {
			fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
		}
	} else if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		if e.Tool != "" || e.Path != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Tool sets the external tool name
func (b *Builder) Tool(name string) *Builder {
	b.err.Tool = name
	return b
}

// ExitCode sets the external tool's exit code
func (b *Builder) ExitCode(code int) *Builder {
	b.err.ExitCode = code
	return b
}

// Path sets the filesystem path the error refers to
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ToolMissing creates an error for a tool not found on PATH
func ToolMissing(phase Phase, tool string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindToolMissing,
		Tool:   tool,
		Detail: "not found on PATH",
	}
}

// InstallFailed creates an installation failure error
func InstallFailed(tool string, cause error) *Error {
	return &Error{
		Phase: PhaseProvision,
		Kind:  KindInstallFailed,
		Tool:  tool,
		Cause: cause,
	}
}

// VersionMismatch creates an error for a tool below its pinned version
func VersionMismatch(tool, have, want string) *Error {
	return &Error{
		Phase:  PhaseProvision,
		Kind:   KindVersionMismatch,
		Tool:   tool,
		Detail: fmt.Sprintf("installed version %s is below pinned %s", have, want),
	}
}

// ExecFailed creates an error for an external command that exited non-zero
func ExecFailed(phase Phase, tool string, exitCode int, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindExecFailed,
		Tool:     tool,
		ExitCode: exitCode,
		Cause:    cause,
	}
}

// MissingDir creates an error for a required directory that does not exist
func MissingDir(phase Phase, path string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingDir,
		Path:   path,
		Detail: "directory does not exist",
	}
}

// NotCreated creates an error for an output the build step failed to produce
func NotCreated(phase Phase, path string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCreated,
		Path:   path,
		Detail: "expected build output is missing",
	}
}

// InvalidManifest creates an error for a malformed package manifest
func InvalidManifest(path string, cause error) *Error {
	return &Error{
		Phase: PhaseCompile,
		Kind:  KindInvalidManifest,
		Path:  path,
		Cause: cause,
	}
}

// InvalidWasm creates an error for a wasm binary that failed validation
func InvalidWasm(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindInvalidWasm,
		Path:  path,
		Cause: cause,
	}
}

// InvalidConfig creates an error for a malformed project file
func InvalidConfig(path string, cause error) *Error {
	return &Error{
		Phase: PhaseConfig,
		Kind:  KindInvalidConfig,
		Path:  path,
		Cause: cause,
	}
}

// IO wraps a filesystem error with its pipeline phase
func IO(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIOFailed,
		Path:  path,
		Cause: cause,
	}
}

// Canceled creates an error for a run interrupted by context cancellation
func Canceled(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindCanceled,
		Cause: cause,
	}
}
