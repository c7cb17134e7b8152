package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *DocumentRepo {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewDocumentRepo(db)
}

func TestDocumentRepoUpsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	docs := []*DocumentRecord{
		{TenantID: "tenant-a", Filename: "report.pdf", Language: "EN", ChunkCount: 12, UploadedAt: 1000},
		{TenantID: "tenant-a", Filename: "manual.pdf", Language: "IT", ChunkCount: 30, UploadedAt: 2000},
		{TenantID: "tenant-b", Filename: "other.pdf", Language: "EN", ChunkCount: 5, UploadedAt: 3000},
	}
	for _, doc := range docs {
		if err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	filenames, err := repo.ListFilenames(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("ListFilenames() error = %v", err)
	}
	want := []string{"manual.pdf", "report.pdf"}
	if len(filenames) != len(want) {
		t.Fatalf("ListFilenames() = %v, want %v", filenames, want)
	}
	for i := range want {
		if filenames[i] != want[i] {
			t.Errorf("ListFilenames()[%d] = %q, want %q", i, filenames[i], want[i])
		}
	}

	// Tenant isolation: tenant-b sees only its own document.
	other, err := repo.ListByTenant(ctx, "tenant-b")
	if err != nil {
		t.Fatalf("ListByTenant() error = %v", err)
	}
	if len(other) != 1 || other[0].Filename != "other.pdf" {
		t.Errorf("ListByTenant(tenant-b) = %+v, want only other.pdf", other)
	}
}

func TestDocumentRepoUpsertReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := &DocumentRecord{TenantID: "tenant-a", Filename: "report.pdf", Language: "EN", ChunkCount: 12, UploadedAt: 1000}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	doc.ChunkCount = 20
	doc.UploadedAt = 5000
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() second call error = %v", err)
	}

	listed, err := repo.ListByTenant(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("ListByTenant() error = %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ListByTenant() returned %d records, want 1", len(listed))
	}
	if listed[0].ChunkCount != 20 || listed[0].UploadedAt != 5000 {
		t.Errorf("record not replaced: %+v", listed[0])
	}
}

func TestDocumentRepoDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := &DocumentRecord{TenantID: "tenant-a", Filename: "report.pdf", Language: "EN", ChunkCount: 12, UploadedAt: 1000}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.Delete(ctx, "tenant-a", "report.pdf"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if err := repo.Delete(ctx, "tenant-a", "report.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() second call error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepoListEmptyTenant(t *testing.T) {
	repo := newTestRepo(t)

	filenames, err := repo.ListFilenames(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListFilenames() error = %v", err)
	}
	if len(filenames) != 0 {
		t.Errorf("ListFilenames() = %v, want empty", filenames)
	}
}
