package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

func TestSQLBlobStore_GetPutOverwrite(t *testing.T) {
	db := newRepoDB(t, &domain.BlobEntry{})
	s := NewSQLBlobStore(db)
	ctx := context.Background()

	if _, err := s.GetBlob(ctx, "municipalityDB"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.PutBlob(ctx, "municipalityDB", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.PutBlob(ctx, "municipalityDB", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.GetBlob(ctx, "municipalityDB")
	if err != nil || string(got) != `{"v":2}` {
		t.Fatalf("get: %q %v", got, err)
	}

	var n int64
	db.Model(&domain.BlobEntry{}).Count(&n)
	if n != 1 {
		t.Fatalf("upsert should keep one row, got %d", n)
	}
}

func TestRedisBlobStore_UnreachableIsNotNotFound(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisBlobStore(client, "cleancity:")

	_, err := s.GetBlob(context.Background(), "k")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("connection failure must surface as an infrastructure error, got %v", err)
	}
	if err := s.PutBlob(context.Background(), "k", []byte("v")); err == nil {
		t.Fatal("expected put to fail against unreachable redis")
	}
}
