// Package response resolves groups of named response options into example
// maps. Each option's payload is synthesized, optionally wrapped in an
// envelope DTO and patched with a shallow override; the DTOs referenced by the
// group are collected, deduplicated, for schema registration.
package response
