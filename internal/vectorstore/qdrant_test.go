package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestBuildFilterRequiresTenant(t *testing.T) {
	if _, err := buildFilter(Filter{}); err == nil {
		t.Fatal("buildFilter() expected error for missing tenant id")
	}
}

func TestBuildFilterTenantOnly(t *testing.T) {
	qf, err := buildFilter(Filter{TenantID: "tenant-a"})
	if err != nil {
		t.Fatalf("buildFilter() error = %v", err)
	}

	if len(qf.Must) != 1 {
		t.Fatalf("got %d must conditions, want 1", len(qf.Must))
	}
	if len(qf.MustNot) != 0 {
		t.Errorf("got %d must_not conditions, want 0", len(qf.MustNot))
	}
}

func TestBuildFilterIncludeWinsOverExclude(t *testing.T) {
	qf, err := buildFilter(Filter{
		TenantID:     "tenant-a",
		IncludeFiles: []string{"report.pdf"},
		ExcludeFiles: []string{"data.pdf"},
	})
	if err != nil {
		t.Fatalf("buildFilter() error = %v", err)
	}

	// Include takes precedence: tenant match plus filename keyword match,
	// and the exclude list is ignored entirely.
	if len(qf.Must) != 2 {
		t.Errorf("got %d must conditions, want 2", len(qf.Must))
	}
	if len(qf.MustNot) != 0 {
		t.Errorf("got %d must_not conditions, want 0 when include is set", len(qf.MustNot))
	}
}

func TestBuildFilterExcludeOnly(t *testing.T) {
	qf, err := buildFilter(Filter{
		TenantID:     "tenant-a",
		ExcludeFiles: []string{"data.pdf", "old.pdf"},
	})
	if err != nil {
		t.Fatalf("buildFilter() error = %v", err)
	}

	if len(qf.Must) != 1 {
		t.Errorf("got %d must conditions, want 1", len(qf.Must))
	}
	if len(qf.MustNot) != 1 {
		t.Errorf("got %d must_not conditions, want 1", len(qf.MustNot))
	}
}

func TestChunkPayloadRoundTrip(t *testing.T) {
	original := Chunk{
		Content:     "Section 2.1 describes access control.",
		TenantID:    "tenant-a",
		Filename:    "security_policy.pdf",
		Language:    "EN",
		Chapter:     "Access Control",
		ElementType: "body",
		ChunkIndex:  4,
		UploadedAt:  1724400000000,
	}

	payload := qdrant.NewValueMap(chunkPayload(original))
	restored := chunkFromPayload(payload)

	// ID travels as the point id, not in the payload.
	original.ID = ""
	if restored != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", restored, original)
	}
}
