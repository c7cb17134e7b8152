package rag

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"paperbase/internal/vectorstore"
	"paperbase/internal/vectorstore/mocks"
)

func TestListDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		Get(gomock.Any(), vectorstore.Filter{TenantID: "tenant-a"}, gomock.Any()).
		Return([]vectorstore.Chunk{
			{Filename: "b.pdf", Language: "EN", UploadedAt: 3000, TenantID: "tenant-a"},
			{Filename: "a.pdf", Language: "IT", UploadedAt: 2000, TenantID: "tenant-a"},
			{Filename: "b.pdf", Language: "EN", UploadedAt: 1000, TenantID: "tenant-a"},
			{Filename: "b.pdf", Language: "EN", UploadedAt: 2500, TenantID: "tenant-a"},
		}, nil)

	docs, err := ListDocuments(context.Background(), store, "tenant-a")
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("ListDocuments() returned %d documents, want 2", len(docs))
	}
	if docs[0].Filename != "a.pdf" || docs[1].Filename != "b.pdf" {
		t.Errorf("documents not sorted by filename: %+v", docs)
	}
	if docs[1].ChunkCount != 3 {
		t.Errorf("b.pdf ChunkCount = %d, want 3", docs[1].ChunkCount)
	}
	if docs[1].UploadedAt != 1000 {
		t.Errorf("b.pdf UploadedAt = %d, want earliest 1000", docs[1].UploadedAt)
	}
	if docs[0].Language != "IT" {
		t.Errorf("a.pdf Language = %q, want IT", docs[0].Language)
	}
}

func TestListDocumentsRequiresTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	if _, err := ListDocuments(context.Background(), mocks.NewMockStore(ctrl), ""); err == nil {
		t.Error("ListDocuments() without tenant succeeded, want error")
	}
}

func TestListDocumentsStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("qdrant unavailable"))

	if _, err := ListDocuments(context.Background(), store, "tenant-a"); err == nil {
		t.Error("ListDocuments() succeeded despite store failure")
	}
}
