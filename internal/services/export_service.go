package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// ExportFilename is the suggested download name of a snapshot.
const ExportFilename = "cleancity-data.json"

// Snapshot is a read-only dump of users and reports. Passwords and photo
// bytes are excluded by the models' JSON tags.
type Snapshot struct {
	Users      []domain.User   `json:"users"`
	Reports    []domain.Report `json:"reports"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// ExportService produces snapshots.
type ExportService struct {
	DB  *gorm.DB
	Now func() time.Time
}

// Snapshot reads every user and report.
func (s *ExportService) Snapshot(ctx context.Context) (*Snapshot, error) {
	ctx, span := otel.Tracer("services/ExportService").Start(ctx, "Snapshot")
	defer span.End()

	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	reports, err := repo.ListReports(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	return &Snapshot{Users: users, Reports: reports, ExportedAt: now}, nil
}

// WriteJSON writes an indented snapshot to w.
func (s *ExportService) WriteJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
