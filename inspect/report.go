package inspect

import (
	"context"
	"os"
	"sort"

	"github.com/wasmkit/wasmbundle/errors"
)

// Report describes one inspected wasm artifact.
type Report struct {
	Path    string
	Module  *Module
	Valid   bool
	ErrText string
}

// File parses and validates the wasm module at path.
// Parse failures are fatal; a validation failure is recorded on the report
// so callers can decide whether it aborts the run.
func File(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseInspect, path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.InvalidWasm(errors.PhaseInspect, path, err)
	}

	rep := &Report{Path: path, Module: m, Valid: true}
	if err := Validate(ctx, data); err != nil {
		rep.Valid = false
		rep.ErrText = err.Error()
	}
	return rep, nil
}

// SameInterface reports whether two artifacts expose the same export set,
// ignoring order. This is the idempotence criterion for repeated builds:
// bytes may differ, the exported interface may not.
func (r *Report) SameInterface(other *Report) bool {
	if r == nil || other == nil || r.Module == nil || other.Module == nil {
		return false
	}
	a := exportSet(r.Module)
	b := exportSet(other.Module)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func exportSet(m *Module) []Export {
	set := make([]Export, len(m.Exports))
	copy(set, m.Exports)
	sort.Slice(set, func(i, j int) bool {
		if set[i].Name != set[j].Name {
			return set[i].Name < set[j].Name
		}
		return set[i].Kind < set[j].Kind
	})
	return set
}
