// ReportService is the report lifecycle: submission credits points and opens
// a municipal record; the municipal office later marks the report cleaned.
//
// A submission is all-or-nothing from the caller's side. The municipal
// record is written first, then the report row and the user's counters in
// one transaction; if that transaction fails the record is removed again.

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/assistant"
	"github.com/tbourn/cleancity-backend/internal/capture"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/municipal"
	"github.com/tbourn/cleancity-backend/internal/points"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// DefaultCleanedNote is attached to the municipal record on MarkCleaned
// when the operator gives no note.
const DefaultCleanedNote = "Report marked as cleaned by municipal office"

const maxDescriptionRunes = 1000

// RecordStore is the subset of the municipal store the lifecycle writes to.
type RecordStore interface {
	AddRecord(ctx context.Context, r *domain.Report, owner *domain.User) (*domain.MunicipalRecord, error)
	UpdateStatus(ctx context.Context, reportID int64, status domain.ReportStatus, note string) (*domain.MunicipalRecord, error)
	Remove(ctx context.Context, reportID int64) error
	ByUser(ctx context.Context, userID int64) ([]domain.MunicipalRecord, error)
}

// Notifier pushes an unsolicited assistant turn to a user's open session.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, resp assistant.Response) error
}

// ReportService implements the report lifecycle.
type ReportService struct {
	DB      *gorm.DB
	Records RecordStore
	IDs     *IDGenerator

	// Notifier is optional.
	Notifier Notifier
	// IdempotencyTTL bounds how long an Idempotency-Key replays. Zero
	// disables idempotent replay.
	IdempotencyTTL time.Duration

	Now func() time.Time

	inflight sync.Map // user id -> struct{}
}

// SubmitInput is one report submission. Photo and Location are the capture
// outcomes gathered before the call.
type SubmitInput struct {
	GarbageType    domain.GarbageType
	Severity       domain.Severity
	Description    string
	Photo          capture.PhotoCapture
	Location       capture.Geolocator
	IdempotencyKey string
}

// SubmitResult carries both records plus the credited user.
type SubmitResult struct {
	Report   *domain.Report          `json:"report"`
	Record   *domain.MunicipalRecord `json:"record,omitempty"`
	User     *domain.User            `json:"user,omitempty"`
	Replayed bool                    `json:"-"`
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Submit validates the input, awards points, and opens the municipal
// record. It is the only path that changes a user's points.
func (s *ReportService) Submit(ctx context.Context, userID int64, in SubmitInput) (*SubmitResult, error) {
	ctx, span := otel.Tracer("services/ReportService").Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("report.severity", string(in.Severity)),
		),
	)
	defer span.End()

	if _, busy := s.inflight.LoadOrStore(userID, struct{}{}); busy {
		return nil, ErrSubmissionInFlight
	}
	defer s.inflight.Delete(userID)

	uid := strconv.FormatInt(userID, 10)
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.IdempotencyTTL > 0 {
		if res, err := s.replay(ctx, uid, key); err == nil {
			return res, nil
		}
	}

	user, err := repo.GetUser(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	report, err := s.buildReport(ctx, user, in)
	if err != nil {
		return nil, err
	}

	rec, err := s.Records.AddRecord(ctx, report, user)
	if err != nil {
		return nil, fmt.Errorf("add municipal record: %w", err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateReport(ctx, tx, report); err != nil {
			return err
		}
		return repo.IncrementUserStats(ctx, tx, user.ID, report.PointsAwarded)
	})
	if err != nil {
		if rmErr := s.Records.Remove(ctx, report.ID); rmErr != nil {
			log.Error().Err(rmErr).Int64("report_id", report.ID).Msg("orphaned municipal record after failed submit")
		}
		return nil, fmt.Errorf("persist report: %w", err)
	}

	if key != "" && s.IdempotencyTTL > 0 {
		if _, err := repo.CreateIdempotency(ctx, s.DB, uid, repo.ScopeReport, key,
			strconv.FormatInt(report.ID, 10), 201, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Err(err).Int64("report_id", report.ID).Msg("store idempotency key")
		}
	}

	user.Points += report.PointsAwarded
	user.ReportCount++

	reportsSubmitted.WithLabelValues(string(report.Severity)).Inc()
	pointsAwarded.Add(float64(report.PointsAwarded))
	span.SetAttributes(attribute.Int64("report.id", report.ID))
	log.Info().
		Int64("report_id", report.ID).
		Int64("user_id", user.ID).
		Str("severity", string(report.Severity)).
		Int("points", report.PointsAwarded).
		Msg("report submitted")

	s.notify(ctx, user.ID, assistant.Response{
		Text: fmt.Sprintf("Great! Your report #%d has been submitted to the municipal office. I can help you track its status!", report.ID),
		Buttons: []domain.Button{
			{Text: "Check Status", Action: assistant.CheckStatusAction(report.ID)},
			{Text: "View My Reports", Action: assistant.ActionViewReports},
		},
		Rule: "report-submitted",
	})

	return &SubmitResult{Report: report, Record: rec, User: user}, nil
}

func (s *ReportService) buildReport(ctx context.Context, user *domain.User, in SubmitInput) (*domain.Report, error) {
	if in.GarbageType == "" {
		return nil, invalid("garbage_type", "required")
	}
	if !in.GarbageType.Valid() {
		return nil, invalid("garbage_type", "unknown garbage type")
	}
	if in.Severity == "" {
		return nil, invalid("severity", "required")
	}
	if !in.Severity.Valid() {
		return nil, invalid("severity", "unknown severity")
	}
	desc := strings.TrimSpace(in.Description)
	if len([]rune(desc)) > maxDescriptionRunes {
		return nil, invalid("description", fmt.Sprintf("at most %d characters", maxDescriptionRunes))
	}

	if in.Photo == nil {
		return nil, invalid("photo", "required")
	}
	photo, err := in.Photo.Capture(ctx)
	if err != nil {
		return nil, captureError("photo", err)
	}
	if in.Location == nil {
		return nil, invalid("location", "required")
	}
	pos, err := in.Location.Position(ctx)
	if err != nil {
		return nil, captureError("location", err)
	}

	now := s.now()
	return &domain.Report{
		ID:            s.IDs.Next(),
		UserID:        user.ID,
		GarbageType:   in.GarbageType,
		Description:   desc,
		Severity:      in.Severity,
		Location:      domain.Location{Latitude: pos.Latitude, Longitude: pos.Longitude},
		Photo:         photo.Data,
		PhotoType:     photo.ContentType,
		Status:        domain.StatusPending,
		PointsAwarded: points.PointsFor(in.Severity),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func captureError(field string, err error) error {
	switch {
	case errors.Is(err, capture.ErrDenied):
		return fmt.Errorf("%s: %w", field, ErrCapabilityDenied)
	case errors.Is(err, capture.ErrUnavailable):
		return invalid(field, "required")
	case errors.Is(err, capture.ErrTooLarge), errors.Is(err, capture.ErrNotImage), errors.Is(err, capture.ErrInvalidPosition):
		return invalid(field, err.Error())
	default:
		return fmt.Errorf("capture %s: %w", field, err)
	}
}

func (s *ReportService) replay(ctx context.Context, uid, key string) (*SubmitResult, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, uid, repo.ScopeReport, key, s.now())
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(rec.ResourceID, 10, 64)
	if err != nil {
		return nil, err
	}
	r, err := repo.GetReport(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Report: r, Replayed: true}, nil
}

// MarkCleaned moves a pending report to cleaned and stamps the municipal
// record. A report that is already cleaned is returned unchanged.
func (s *ReportService) MarkCleaned(ctx context.Context, reportID int64, note string) (*domain.Report, error) {
	ctx, span := otel.Tracer("services/ReportService").Start(ctx, "MarkCleaned",
		trace.WithAttributes(attribute.Int64("report.id", reportID)),
	)
	defer span.End()

	r, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r.Status == domain.StatusCleaned {
		return r, nil
	}
	if strings.TrimSpace(note) == "" {
		note = DefaultCleanedNote
	}

	// The record goes first: cleaned -> cleaned is accepted by the store, so
	// a retry after a failed row update converges.
	if _, err := s.Records.UpdateStatus(ctx, reportID, domain.StatusCleaned, note); err != nil {
		if !errors.Is(err, municipal.ErrRecordNotFound) {
			return nil, fmt.Errorf("update municipal record: %w", err)
		}
		log.Warn().Int64("report_id", reportID).Msg("report has no municipal record")
	}

	moved, err := repo.MarkReportCleaned(ctx, s.DB, reportID, s.now())
	if err != nil {
		return nil, err
	}
	r, err = s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !moved {
		return r, nil
	}

	reportsCleaned.Inc()
	log.Info().Int64("report_id", reportID).Msg("report marked cleaned")
	s.notify(ctx, r.UserID, assistant.Response{
		Text: fmt.Sprintf("🎉 Great news! Your report #%d has been marked as cleaned by the municipal office!", reportID),
		Rule: "report-cleaned",
	})
	return r, nil
}

// Get returns a report by id.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	r, err := repo.GetReport(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	return r, err
}

// Photo returns the stored image and its content type.
func (s *ReportService) Photo(ctx context.Context, id int64) ([]byte, string, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(r.Photo) == 0 {
		return nil, "", ErrReportNotFound
	}
	ct := r.PhotoType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return r.Photo, ct, nil
}

// ListByUser returns the user's municipal records in submission order.
func (s *ReportService) ListByUser(ctx context.Context, userID int64) ([]domain.MunicipalRecord, error) {
	return s.Records.ByUser(ctx, userID)
}

// Stats are the public counters.
type Stats struct {
	TotalReports   int64 `json:"total_reports"`
	CleanedReports int64 `json:"cleaned_reports"`
	ActiveUsers    int64 `json:"active_users"`
	PendingReports int64 `json:"pending_reports"`
	CleanedToday   int64 `json:"cleaned_today"`
}

// Stats aggregates report and user counts.
func (s *ReportService) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := otel.Tracer("services/ReportService").Start(ctx, "Stats")
	defer span.End()

	c, err := repo.CountReports(ctx, s.DB, s.now())
	if err != nil {
		return nil, err
	}
	users, _, err := repo.UsersStats(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalReports:   c.Total,
		CleanedReports: c.Cleaned,
		ActiveUsers:    users,
		PendingReports: c.Pending,
		CleanedToday:   c.CleanedToday,
	}, nil
}

func (s *ReportService) notify(ctx context.Context, userID int64, resp assistant.Response) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyUser(ctx, userID, resp); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("assistant notification failed")
	}
}
