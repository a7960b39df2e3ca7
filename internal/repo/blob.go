// Package repo implements the data persistence layer for domain entities.
// This file provides the durable key/value blob stores that back the
// municipal record document and per-session assistant flags. Two
// implementations share one contract: a GORM table (default) and Redis.
// A missing key is always reported as ErrNotFound.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// SQLBlobStore stores blobs in the "blobs" table.
type SQLBlobStore struct {
	DB *gorm.DB
}

// NewSQLBlobStore returns a blob store over db.
func NewSQLBlobStore(db *gorm.DB) *SQLBlobStore { return &SQLBlobStore{DB: db} }

// GetBlob returns the value stored under key.
func (s *SQLBlobStore) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var e domain.BlobEntry
	err := s.DB.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

// PutBlob writes value under key, replacing any previous value.
func (s *SQLBlobStore) PutBlob(ctx context.Context, key string, value []byte) error {
	e := domain.BlobEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// RedisBlobStore stores blobs as plain Redis string keys under Prefix.
type RedisBlobStore struct {
	Client redis.UniversalClient
	Prefix string
}

// NewRedisBlobStore returns a Redis-backed blob store. Keys are written as
// prefix+key.
func NewRedisBlobStore(client redis.UniversalClient, prefix string) *RedisBlobStore {
	return &RedisBlobStore{Client: client, Prefix: prefix}
}

// GetBlob returns the value stored under key.
func (s *RedisBlobStore) GetBlob(ctx context.Context, key string) ([]byte, error) {
	b, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// PutBlob writes value under key with no expiry.
func (s *RedisBlobStore) PutBlob(ctx context.Context, key string, value []byte) error {
	return s.Client.Set(ctx, s.Prefix+key, value, 0).Err()
}
