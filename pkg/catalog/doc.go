// Package catalog exposes the public contracts for loading and parsing
// declarative catalogs: DTO metadata plus the operations documented with it.
// Loader and parser implementations live under internal/catalog.
package catalog
