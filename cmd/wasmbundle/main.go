package main

import (
	"context"
	goerrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"
	"golang.org/x/term"

	wasmbundle "github.com/wasmkit/wasmbundle"
	"github.com/wasmkit/wasmbundle/build"
	"github.com/wasmkit/wasmbundle/config"
	"github.com/wasmkit/wasmbundle/errors"
	"github.com/wasmkit/wasmbundle/inspect"
	"github.com/wasmkit/wasmbundle/pipeline"
	"github.com/wasmkit/wasmbundle/toolchain"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: wasmbundle install-tools [-locked=false] [-min-version X.Y.Z]")
	fmt.Fprintln(os.Stderr, "       wasmbundle build-wasm [-crate dir] [-assets dir] [-skip-verify] [-i]")
	fmt.Fprintln(os.Stderr, "       wasmbundle inspect <file.wasm>")
	fmt.Fprintln(os.Stderr, "       wasmbundle version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "install-tools":
		err = runInstallTools(ctx, os.Args[2:])
	case "build-wasm":
		err = runBuildWasm(ctx, os.Args[2:])
	case "inspect":
		err = runInspect(ctx, os.Args[2:])
	case "version", "-version", "--version":
		fmt.Println("wasmbundle", wasmbundle.Version)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode propagates the wrapped tool's exit status when one is recorded.
func exitCode(err error) int {
	var serr *errors.Error
	if goerrors.As(err, &serr) && serr.ExitCode > 0 {
		return serr.ExitCode
	}
	return 1
}

func runInstallTools(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("install-tools", flag.ExitOnError)
	var (
		locked     = fs.Bool("locked", true, "Install with cargo's locked dependency versions")
		minVersion = fs.String("min-version", "", "Minimum acceptable wasm-pack version")
		verbose    = fs.Bool("v", false, "Verbose logging")
	)
	fs.Parse(args)

	tool := toolchain.WasmPack()
	tool.Locked = *locked
	if *minVersion != "" {
		v, err := semver.NewVersion(*minVersion)
		if err != nil {
			return errors.New(errors.PhaseProvision, errors.KindInvalidConfig).
				Detail("min-version %q is not a semantic version", *minVersion).
				Cause(err).
				Build()
		}
		tool.MinVersion = v
	}

	log := newLogger(*verbose)
	defer log.Sync()

	p := toolchain.NewProvisioner(tool, toolchain.WithLogger(log))
	if err := p.Ensure(ctx); err != nil {
		return err
	}
	fmt.Printf("%s provisioned\n", tool.Name)
	return nil
}

func runBuildWasm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build-wasm", flag.ExitOnError)
	var (
		crateDir    = fs.String("crate", ".", "Crate root to compile")
		assetDir    = fs.String("assets", "", "Static asset directory (default: <crate>/web)")
		configPath  = fs.String("config", "", "Project file (default: <crate>/wasmbundle.toml)")
		dev         = fs.Bool("dev", false, "Build the debug profile")
		skipVerify  = fs.Bool("skip-verify", false, "Skip wasm artifact verification")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
		verbose     = fs.Bool("v", false, "Verbose logging")
	)
	fs.Parse(args)

	path := *configPath
	if path == "" {
		path = filepath.Join(*crateDir, config.DefaultFileName)
	}
	proj, err := config.Load(path, *crateDir)
	if err != nil {
		return err
	}
	if *assetDir != "" {
		proj.AssetDir = *assetDir
	} else if !filepath.IsAbs(proj.AssetDir) {
		proj.AssetDir = filepath.Join(proj.CrateDir, proj.AssetDir)
	}
	if *dev {
		proj.Build.Dev = true
	}

	if *interactive && term.IsTerminal(int(os.Stderr.Fd())) {
		return runInteractive(ctx, proj, *skipVerify)
	}

	log := newLogger(*verbose)
	defer log.Sync()
	pipeline.SetLogger(log)

	p := pipeline.New(pipeline.Options{
		Builder:    build.NewBuilder(build.WithLogger(log)),
		AssetDir:   proj.AssetDir,
		SkipVerify: *skipVerify,
	})

	res, err := p.Run(ctx, proj.Build)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func printResult(res *pipeline.Result) {
	fmt.Printf("Bundle: %s\n", res.Artifact.Dir)
	fmt.Printf("Package: %s %s\n", res.Artifact.Manifest.Name, res.Artifact.Manifest.Version)
	fmt.Printf("Assets merged: %d\n", len(res.Copied))
	if res.Report != nil {
		fmt.Printf("\nExports:\n")
		for _, e := range res.Report.Module.Exports {
			fmt.Printf("  %s (%s)\n", e.Name, e.Kind)
		}
	}
}

func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New(errors.PhaseInspect, errors.KindInvalidConfig).
			Detail("inspect takes exactly one wasm file").
			Build()
	}

	rep, err := inspect.File(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Module: %s\n", rep.Path)
	fmt.Printf("Size: %d bytes\n", rep.Module.Size)
	fmt.Printf("Valid: %v\n", rep.Valid)
	if rep.ErrText != "" {
		fmt.Printf("  %s\n", rep.ErrText)
	}
	fmt.Printf("\nExports:\n")
	for _, e := range rep.Module.Exports {
		fmt.Printf("  %s (%s)\n", e.Name, e.Kind)
	}
	if len(rep.Module.CustomSections) > 0 {
		fmt.Printf("\nCustom sections:\n")
		for _, name := range rep.Module.CustomSections {
			fmt.Printf("  %s\n", name)
		}
	}

	if !rep.Valid {
		return errors.InvalidWasm(errors.PhaseInspect, rep.Path, nil)
	}
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
