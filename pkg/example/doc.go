// Package example provides the ordered Object used for synthesized example
// values and the shallow Merge applied to caller overrides.
package example
