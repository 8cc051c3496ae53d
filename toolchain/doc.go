// Package toolchain provisions the external tools the bundler shells out to.
//
// The provisioner checks PATH for the tool, parses its reported version, and
// installs it with cargo when it is absent or below the pinned minimum.
// Provisioning is idempotent: a satisfied check is a no-op, and a rerun
// after a partial install simply retries the installer.
package toolchain
