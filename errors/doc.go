// Package errors provides structured error types for the wasmbundle tool.
//
// Errors are categorized by Phase (which pipeline step failed) and Kind
// (error category). The Error type includes the tool invocation, its exit
// code, and the cause chain, so operators can tell a failed compile apart
// from a failed asset merge.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindExecFailed).
//		Tool("wasm-pack").
//		ExitCode(101).
//		Detail("build rejected feature combination").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ToolMissing(errors.PhaseProvision, "wasm-pack")
//	err := errors.MissingDir(errors.PhaseMerge, "web")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
