// Package inspect reads compiled WebAssembly modules to verify a bundle.
//
// It parses the binary section layout directly for the export surface and
// custom section names, and uses wazero to confirm the module actually
// compiles. Two builds are considered interface-equivalent when their
// export sets match, which is the property the bundler checks instead of
// byte-for-byte output equality.
package inspect
