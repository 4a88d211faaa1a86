package orchestrator_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

func TestTransformerFunc_NilIsNoop(t *testing.T) {
	var fn orchestrator.TransformerFunc
	if err := fn.Transform(context.Background(), &openapi3.T{}); err != nil {
		t.Fatalf("nil transformer returned %v", err)
	}
}

func TestServerTransformer_SkipsKnownAndEmpty(t *testing.T) {
	doc := &openapi3.T{Servers: openapi3.Servers{{URL: "https://api.example.com"}}}

	transformer := orchestrator.ServerTransformer("", "https://api.example.com", "http://localhost:8080", "http://localhost:8080")
	if err := transformer.Transform(context.Background(), doc); err != nil {
		t.Fatalf("transform: %v", err)
	}

	var got []string
	for _, server := range doc.Servers {
		got = append(got, server.URL)
	}
	want := []string{"https://api.example.com", "http://localhost:8080"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("servers mismatch (-want +got):\n%s", diff)
	}
}
