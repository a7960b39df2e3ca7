// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for assistant
// conversation turns. Transcripts are append-only.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// CreateTurn appends t to its session transcript, assigning ID and
// CreatedAt when unset.
func CreateTurn(ctx context.Context, db *gorm.DB, t *domain.ConversationTurn) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(t).Error
}

// CountTurns returns the number of turns in a session.
func CountTurns(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}

// ListTurnsPage returns a page of a session transcript ordered
// (CreatedAt ASC, ID ASC).
func ListTurnsPage(ctx context.Context, db *gorm.DB, sessionID string, offset, limit int) ([]domain.ConversationTurn, error) {
	var out []domain.ConversationTurn
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
