package inspect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wasmkit/wasmbundle/inspect"
)

func writeWasm(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.wasm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile(t *testing.T) {
	path := writeWasm(t, donutModule())

	rep, err := inspect.File(context.Background(), path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if !rep.Valid {
		t.Errorf("module should be valid: %s", rep.ErrText)
	}
	if got := rep.Module.ExportedFuncs(); len(got) != 1 || got[0] != "wasm_render" {
		t.Errorf("exports = %v", got)
	}
}

func TestFile_Missing(t *testing.T) {
	if _, err := inspect.File(context.Background(), filepath.Join(t.TempDir(), "nope.wasm")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFile_Unparseable(t *testing.T) {
	path := writeWasm(t, []byte("garbage"))
	if _, err := inspect.File(context.Background(), path); err == nil {
		t.Error("expected error for unparseable module")
	}
}

func TestSameInterface(t *testing.T) {
	ctx := context.Background()

	a, err := inspect.File(ctx, writeWasm(t, donutModule()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := inspect.File(ctx, writeWasm(t, donutModule()))
	if err != nil {
		t.Fatal(err)
	}
	if !a.SameInterface(b) {
		t.Error("identical modules must have the same interface")
	}

	c, err := inspect.File(ctx, writeWasm(t, header))
	if err != nil {
		t.Fatal(err)
	}
	if a.SameInterface(c) {
		t.Error("different export sets must not compare equal")
	}
	if a.SameInterface(nil) {
		t.Error("nil report must not compare equal")
	}
}
