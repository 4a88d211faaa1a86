package synth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-respdoc/pkg/metadata"
)

// ErrMetadataCycle is matched by every MetadataCycleError.
var ErrMetadataCycle = errors.New("synth: metadata cycle")

// MetadataCycleError reports a DTO graph that cannot be synthesized because a
// type re-enters itself along a single path or the nesting exceeds MaxDepth.
type MetadataCycleError struct {
	// Path lists the DTOs being resolved when synthesis stopped, outermost
	// first. For re-entry the repeated type is the last element.
	Path []metadata.TypeID
	// Repeated is the type that re-entered itself; empty when the depth bound
	// was hit instead.
	Repeated metadata.TypeID
	Depth    int
	MaxDepth int
}

func (e *MetadataCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	if e.Repeated == "" {
		return fmt.Sprintf("synth: metadata depth %d exceeds %d (%s)", e.Depth, e.MaxDepth, strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("synth: metadata cycle on %s (%s)", e.Repeated, strings.Join(parts, " -> "))
}

// Is lets errors.Is match ErrMetadataCycle.
func (e *MetadataCycleError) Is(target error) bool {
	return target == ErrMetadataCycle
}
