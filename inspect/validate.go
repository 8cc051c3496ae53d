package inspect

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/wasmkit/wasmbundle/errors"
)

// Validate compiles the module under wazero to confirm it is well-formed
// beyond the section layout Parse checks. Imports are not resolved, so
// wasm-bindgen modules with JS glue imports still validate.
func Validate(ctx context.Context, data []byte) error {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return errors.InvalidWasm(errors.PhaseVerify, "", err)
	}
	return compiled.Close(ctx)
}
