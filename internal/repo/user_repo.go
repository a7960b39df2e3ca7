// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Functions follow the thin-repository approach: no business rules, only
// persistence and query composition. Missing rows surface as ErrNotFound and
// unique-email collisions as ErrDuplicate.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// CreateUser inserts u. JoinedAt defaults to now when unset.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetUser fetches a user by id.
func GetUser(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by (already normalised) email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user in creation order (id ascending). Ranking
// relies on this order to break ties.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// IncrementUserStats adds pts to the user's points and bumps report_count by
// one in a single statement. It is the only write path for either column.
func IncrementUserStats(ctx context.Context, db *gorm.DB, id int64, pts int) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"points":       gorm.Expr("points + ?", pts),
			"report_count": gorm.Expr("report_count + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
