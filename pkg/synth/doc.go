// Package synth walks DTO field metadata and produces illustrative example
// instances. Nested DTOs, generic substitution, arrays and deferred references
// are resolved recursively; every array holds exactly one element.
//
// Types re-entering themselves along one path, or graphs nested deeper than
// the configured bound, stop with a MetadataCycleError instead of recursing
// without end.
package synth
