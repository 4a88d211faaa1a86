// Package orchestrator wires the loader → parser → document builder → renderer
// pipeline behind a single entry point.
package orchestrator
