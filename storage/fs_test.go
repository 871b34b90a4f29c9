package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestFSStorePutGet(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}

	ctx := context.Background()
	data := []byte("model bytes")
	if err := store.Put(ctx, "models/p1/v1.model", data); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Get(ctx, "models/p1/v1.model")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}
}

func TestFSStoreOverwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "key", []byte("old")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Put(ctx, "key", []byte("new")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get() = %q, want new", got)
	}
}

func TestFSStoreGetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	if _, err := store.Get(context.Background(), "missing"); err == nil {
		t.Error("Get() on missing key did not fail")
	}
}

func TestFSStoreDeleteIdempotent(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "key", []byte("data")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	// Deleting again must succeed
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("second Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "key"); err == nil {
		t.Error("Get() after delete did not fail")
	}
}
