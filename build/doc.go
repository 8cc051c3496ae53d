// Package build runs wasm-pack against a crate and describes what it
// produced.
//
// A successful build returns an Artifact: the output directory, the parsed
// package manifest, and the path of the compiled wasm module. The Artifact
// is the only legal input to the asset merge step, which makes the compile
// gate structural rather than a flag check.
package build
