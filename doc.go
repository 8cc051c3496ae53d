// Package wasmbundle builds deployable web bundles from Rust libraries
// compiled to WebAssembly.
//
// The tool wraps wasm-pack: it provisions the toolchain, runs a fixed-target
// build, merges static web assets into the package output, and verifies the
// produced module.
//
// # Architecture Overview
//
// The module is organized into small packages with one step each:
//
//	wasmbundle/          Root package with the tool version
//	├── toolchain/       wasm-pack detection, version pinning, cargo install
//	├── build/           wasm-pack build invocation and artifact manifest
//	├── bundle/          static asset merge into the build output
//	├── inspect/         wasm binary parsing and wazero validation
//	├── pipeline/        sequential state machine driving the steps
//	├── shell/           external command execution
//	├── config/          optional wasmbundle.toml project file
//	└── errors/          structured error types for diagnostics
//
// # Quick Start
//
// Build a bundle from a crate root:
//
//	p := pipeline.New(pipeline.Options{AssetDir: "web"})
//	res, err := p.Run(ctx, build.DefaultConfig("."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Artifact.Dir) // "pkg"
//
// The asset merge step only accepts the artifact returned by a successful
// build, so a bundle can never contain assets without compiled output.
package wasmbundle

// Version is the tool version reported by the CLI.
const Version = "0.2.0"
