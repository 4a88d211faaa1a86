// Package docbuilder composes operation metadata and response groups into a
// validated OpenAPI document. Each operation is described explicitly through
// an OperationBuilder; the DocumentBuilder synthesizes examples, registers the
// referenced DTOs under components/schemas and validates the result with
// kin-openapi.
package docbuilder
