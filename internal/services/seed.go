package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// demoPhoto is a 1x1 JPEG.
const demoPhoto = "/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAAYEBQYFBAYGBQYHBwYIChAKCgkJChQODwwQFxQYGBcUFhYaHSUfGhsjHBYWICwgIyYnKSopGR8tMC0oMCUoKSj/2wBDAQcHBwoIChMKChMoGhYaKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCgoKCj/wAARCAABAAEDASIAAhEBAxEB/8QAFQABAQAAAAAAAAAAAAAAAAAAAAv/xAAUEAEAAAAAAAAAAAAAAAAAAAAA/8QAFQEBAQAAAAAAAAAAAAAAAAAAAAX/xAAUEQEAAAAAAAAAAAAAAAAAAAAA/9oADAMBAAIRAxEAPwCdABmX/9k="

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DemoUsers are the accounts loaded by SeedDemo. Their counters are
// fixture values, not the sum of the demo reports.
func DemoUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Password: "password123", Phone: "+1234567890", Points: 45, ReportCount: 3, JoinedAt: mustTime("2024-01-15T10:00:00Z")},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Password: "password123", Phone: "+1234567891", Points: 30, ReportCount: 2, JoinedAt: mustTime("2024-01-20T14:30:00Z")},
		{ID: 3, Name: "Mike Johnson", Email: "mike@example.com", Password: "password123", Phone: "+1234567892", Points: 25, ReportCount: 2, JoinedAt: mustTime("2024-01-25T09:15:00Z")},
	}
}

// DemoReports are the reports loaded by SeedDemo.
func DemoReports() []domain.Report {
	photo, _ := base64.StdEncoding.DecodeString(demoPhoto)
	return []domain.Report{
		{
			ID: 1, UserID: 1, GarbageType: domain.GarbagePlastic,
			Description: "Large pile of plastic bottles near the park", Severity: domain.SeverityHigh,
			Location: domain.Location{Latitude: 40.7128, Longitude: -74.0060},
			Photo:    photo, PhotoType: "image/jpeg",
			Status: domain.StatusCleaned, PointsAwarded: 15,
			CreatedAt: mustTime("2024-01-15T10:30:00Z"),
		},
		{
			ID: 2, UserID: 2, GarbageType: domain.GarbageOrganic,
			Description: "Food waste scattered around the street", Severity: domain.SeverityMedium,
			Location: domain.Location{Latitude: 40.7589, Longitude: -73.9851},
			Photo:    photo, PhotoType: "image/jpeg",
			Status: domain.StatusPending, PointsAwarded: 10,
			CreatedAt: mustTime("2024-01-20T15:45:00Z"),
		},
	}
}

// SeedDemo loads the demo users, reports, and matching municipal records
// into an empty database. It reports false when users already exist.
func SeedDemo(ctx context.Context, db *gorm.DB, records RecordStore) (bool, error) {
	n, _, err := repo.UsersStats(ctx, db)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	users := DemoUsers()
	byID := make(map[int64]*domain.User, len(users))
	for i := range users {
		if err := repo.CreateUser(ctx, db, &users[i]); err != nil {
			return false, fmt.Errorf("seed user %d: %w", users[i].ID, err)
		}
		byID[users[i].ID] = &users[i]
	}

	for _, r := range DemoReports() {
		cleaned := r.Status == domain.StatusCleaned
		r.Status = domain.StatusPending
		r.UpdatedAt = r.CreatedAt
		if _, err := records.AddRecord(ctx, &r, byID[r.UserID]); err != nil {
			return false, fmt.Errorf("seed record %d: %w", r.ID, err)
		}
		if cleaned {
			r.Status = domain.StatusCleaned
			if _, err := records.UpdateStatus(ctx, r.ID, domain.StatusCleaned, DefaultCleanedNote); err != nil {
				return false, fmt.Errorf("seed record %d: %w", r.ID, err)
			}
		}
		if err := repo.CreateReport(ctx, db, &r); err != nil {
			return false, fmt.Errorf("seed report %d: %w", r.ID, err)
		}
	}
	log.Info().Int("users", len(users)).Msg("demo data seeded")
	return true, nil
}
