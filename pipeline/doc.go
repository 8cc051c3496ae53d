// Package pipeline drives one bundling run through its steps in order:
// provision, build, merge, verify.
//
// Execution is single-shot and strictly sequential. Each step blocks until
// it finishes, a failed step moves the run to the terminal failed state and
// skips everything after it, and the only recovery from a failure is a
// fresh run. No partial output is cleaned up.
package pipeline
