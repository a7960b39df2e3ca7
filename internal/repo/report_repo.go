// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report model.
//
// List queries omit the photo column; photos are loaded only by GetReport.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// CreateReport inserts r.
func CreateReport(ctx context.Context, db *gorm.DB, r *domain.Report) error {
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetReport fetches a report, including its photo, by id.
func GetReport(ctx context.Context, db *gorm.DB, id int64) (*domain.Report, error) {
	var r domain.Report
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReports returns every report in submission order without photo bytes.
func ListReports(ctx context.Context, db *gorm.DB) ([]domain.Report, error) {
	var out []domain.Report
	err := db.WithContext(ctx).
		Omit("photo").
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// MarkReportCleaned moves a pending report to cleaned. It reports whether a
// row changed; false means the report is missing or already cleaned.
func MarkReportCleaned(ctx context.Context, db *gorm.DB, id int64, at time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusCleaned,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReportCounts is the aggregate used by the public stats endpoint.
type ReportCounts struct {
	Total        int64
	Cleaned      int64
	Pending      int64
	CleanedToday int64
}

// CountReports aggregates report totals. "Today" starts at midnight UTC of now.
func CountReports(ctx context.Context, db *gorm.DB, now time.Time) (ReportCounts, error) {
	var c ReportCounts
	q := db.WithContext(ctx).Model(&domain.Report{})
	if err := q.Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := db.WithContext(ctx).Model(&domain.Report{}).
		Where("status = ?", domain.StatusCleaned).Count(&c.Cleaned).Error; err != nil {
		return c, err
	}
	c.Pending = c.Total - c.Cleaned

	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := db.WithContext(ctx).Model(&domain.Report{}).
		Where("status = ? AND updated_at >= ?", domain.StatusCleaned, midnight).
		Count(&c.CleanedToday).Error; err != nil {
		return c, err
	}
	return c, nil
}
