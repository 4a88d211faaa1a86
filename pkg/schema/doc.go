// Package schema assembles OpenAPI response documentation from resolved
// response groups using kin-openapi. DTO metadata is published as component
// schemas (extra models) and each response body is described as a oneOf over
// the referenced models, with the envelope schema applied to additional
// properties when one is configured.
package schema
