package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "tool error with exit code",
			err: &Error{
				Phase:    PhaseCompile,
				Kind:     KindExecFailed,
				Tool:     "wasm-pack",
				ExitCode: 101,
				Detail:   "build rejected",
			},
			contains: []string{"[compile]", "exec_failed", "wasm-pack", "exited with code 101", "build rejected"},
		},
		{
			name: "path error",
			err: &Error{
				Phase:  PhaseMerge,
				Kind:   KindMissingDir,
				Path:   "web",
				Detail: "directory does not exist",
			},
			contains: []string{"[merge]", "missing_dir", "at web", "directory does not exist"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseVerify,
				Kind:  KindInvalidWasm,
			},
			contains: []string{"[verify]", "invalid_wasm"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseProvision,
				Kind:   KindInstallFailed,
				Tool:   "wasm-pack",
				Detail: "cargo install failed",
				Cause:  errors.New("exit status 1"),
			},
			contains: []string{"[provision]", "install_failed", "cargo install failed", "caused by", "exit status 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InstallFailed("wasm-pack", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := ExecFailed(PhaseCompile, "wasm-pack", 1, nil)
	b := ExecFailed(PhaseCompile, "cargo", 2, nil)
	c := ExecFailed(PhaseProvision, "cargo", 1, nil)

	if !errors.Is(a, b) {
		t.Error("errors with same phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different phases should not match")
	}
	if errors.Is(a, errors.New("plain")) {
		t.Error("structured error should not match a plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseVerify, KindInvalidWasm).
		Path("pkg/donut_bg.wasm").
		Detail("section %d out of order", 3).
		Cause(cause).
		Build()

	if err.Phase != PhaseVerify || err.Kind != KindInvalidWasm {
		t.Errorf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Path != "pkg/donut_bg.wasm" {
		t.Errorf("unexpected path: %q", err.Path)
	}
	if err.Detail != "section 3 out of order" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("cause not preserved")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if err := ToolMissing(PhaseProvision, "wasm-pack"); err.Kind != KindToolMissing {
		t.Errorf("ToolMissing kind = %s", err.Kind)
	}
	if err := VersionMismatch("wasm-pack", "0.10.0", "0.13.0"); !strings.Contains(err.Error(), "0.13.0") {
		t.Errorf("VersionMismatch message missing pinned version: %s", err)
	}
	if err := NotCreated(PhaseMerge, "pkg"); err.Path != "pkg" {
		t.Errorf("NotCreated path = %q", err.Path)
	}
	if err := InvalidManifest("pkg/package.json", nil); err.Phase != PhaseCompile {
		t.Errorf("InvalidManifest phase = %s", err.Phase)
	}
}
