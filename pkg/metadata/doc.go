// Package metadata holds the declarative field metadata attached to DTOs: the
// closed TypeRef union (primitive, generic marker, direct and deferred
// references), per-field descriptors and the Store consumed by example
// synthesis. DTOs are declared in code through Builder or loaded from JSON/YAML
// catalog files with LoadFS.
package metadata
