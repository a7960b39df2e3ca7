package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/leaderboard"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// LeaderboardService ranks stored users.
type LeaderboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

// Top returns the display rows for period.
func (s *LeaderboardService) Top(ctx context.Context, period leaderboard.Period) ([]leaderboard.Entry, error) {
	ctx, span := otel.Tracer("services/LeaderboardService").Start(ctx, "Top",
		trace.WithAttributes(attribute.String("period", string(period))),
	)
	defer span.End()

	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	return leaderboard.Top(users, period, now, leaderboard.DisplayLimit), nil
}

// Version returns the user count and latest update, which change whenever
// the board can change. Handlers derive an ETag from it.
func (s *LeaderboardService) Version(ctx context.Context) (int64, *time.Time, error) {
	return repo.UsersStats(ctx, s.DB)
}
