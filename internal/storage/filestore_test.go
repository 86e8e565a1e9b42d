package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestFileStoreWriteRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	id, err := store.Write(ctx, "blob-1", []byte("payload"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := store.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Fatalf("Read = %q", data)
	}
	if !store.Exists(ctx, id) {
		t.Fatal("Exists should report stored blob")
	}
}

func TestFileStoreReadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Read(context.Background(), "missing"); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("want ErrBlobNotFound, got %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("traversal id must be rejected")
	}
}
