// Package municipal owns the municipal record document: one JSON blob per
// namespace holding every MunicipalRecord, the authoritative status history
// keyed by report id, and the office directory.
//
// Every operation is a full read-modify-write of the blob performed under the
// store mutex, so a single Store is a serializing writer. Two Store values
// over the same blob and namespace are not coordinated with each other.
package municipal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/points"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// DefaultNamespace is the blob key the document is stored under.
const DefaultNamespace = "municipalityDB"

// OfficeAuthor is stamped on every note added through UpdateStatus.
const OfficeAuthor = "Municipal Office"

var (
	// ErrRecordNotFound is returned when no record exists for a report id.
	ErrRecordNotFound = errors.New("municipal record not found")

	// ErrStatusRegression is returned when a cleaned record would move back
	// to pending.
	ErrStatusRegression = errors.New("municipal record status cannot regress")

	// ErrInvalidStatus is returned for statuses outside pending/cleaned.
	ErrInvalidStatus = errors.New("invalid municipal record status")
)

// Blobs is the durable key/value contract the store persists through.
// GetBlob must return repo.ErrNotFound for an absent key.
type Blobs interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, value []byte) error
}

// Store is the MunicipalRecordStore. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	blobs Blobs
	key   string
	org   domain.OrgInfo
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides the blob key.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns = strings.TrimSpace(ns); ns != "" {
			s.key = ns
		}
	}
}

// WithOrgInfo sets the directory written when the document is first created.
func WithOrgInfo(info domain.OrgInfo) Option {
	return func(s *Store) { s.org = info }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a store over blobs.
func NewStore(blobs Blobs, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		key:   DefaultNamespace,
		org:   DefaultOrgInfo(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Namespace returns the blob key in use.
func (s *Store) Namespace() string { return s.key }

// AddRecord derives a pending record from r and appends it together with a
// status-history entry. It does not deduplicate: callers must invoke it
// exactly once per report.
func (s *Store) AddRecord(ctx context.Context, r *domain.Report, owner *domain.User) (*domain.MunicipalRecord, error) {
	ctx, span := otel.Tracer("municipal/Store").Start(ctx, "AddRecord",
		trace.WithAttributes(attribute.Int64("report.id", r.ID)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	terms := points.Lookup(r.Severity)
	rec := domain.MunicipalRecord{
		ID:            r.ID,
		UserID:        r.UserID,
		GarbageType:   r.GarbageType,
		Description:   r.Description,
		Severity:      r.Severity,
		Location:      r.Location,
		Timestamp:     r.CreatedAt,
		Status:        domain.StatusPending,
		EstimatedTime: terms.EstimatedTime,
		Priority:      terms.Priority,
		Notes:         []domain.RecordNote{},
	}
	if owner != nil {
		rec.UserName = owner.Name
		rec.UserEmail = owner.Email
	}

	submitted := r.CreatedAt
	data.Records = append(data.Records, rec)
	data.StatusHistory[historyKey(r.ID)] = domain.StatusEntry{
		Status:      domain.StatusPending,
		SubmittedAt: &submitted,
		UpdatedAt:   submitted,
	}
	if err := s.save(ctx, data); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateStatus sets the status of the record for reportID, stamps UpdatedAt,
// appends note (when non-empty) authored by the office, and rewrites the
// status-history entry. A cleaned record never returns to pending, and
// cleaning it again returns it unchanged.
func (s *Store) UpdateStatus(ctx context.Context, reportID int64, status domain.ReportStatus, note string) (*domain.MunicipalRecord, error) {
	ctx, span := otel.Tracer("municipal/Store").Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.Int64("report.id", reportID),
			attribute.String("status", string(status)),
		),
	)
	defer span.End()

	if status != domain.StatusPending && status != domain.StatusCleaned {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(data.Records, reportID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	rec := &data.Records[idx]
	if rec.Status == domain.StatusCleaned {
		if status == domain.StatusPending {
			return nil, ErrStatusRegression
		}
		out := *rec
		return &out, nil
	}

	now := s.now()
	rec.Status = status
	rec.UpdatedAt = &now
	if note = strings.TrimSpace(note); note != "" {
		rec.Notes = append(rec.Notes, domain.RecordNote{Text: note, Timestamp: now, Author: OfficeAuthor})
	}

	entry := data.StatusHistory[historyKey(reportID)]
	entry.Status = status
	entry.UpdatedAt = now
	data.StatusHistory[historyKey(reportID)] = entry

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

// Remove deletes the record and status entry for reportID. It exists only to
// undo AddRecord when the rest of a submission fails.
func (s *Store) Remove(ctx context.Context, reportID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(data.Records, reportID)
	if idx < 0 {
		return ErrRecordNotFound
	}
	data.Records = append(data.Records[:idx], data.Records[idx+1:]...)
	delete(data.StatusHistory, historyKey(reportID))
	return s.save(ctx, data)
}

// Record returns the record for reportID.
func (s *Store) Record(ctx context.Context, reportID int64) (*domain.MunicipalRecord, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(data.Records, reportID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	rec := data.Records[idx]
	return &rec, nil
}

// StatusOf returns the authoritative status entry for reportID.
func (s *Store) StatusOf(ctx context.Context, reportID int64) (*domain.StatusEntry, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := data.StatusHistory[historyKey(reportID)]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &e, nil
}

// Records returns every record in submission order.
func (s *Store) Records(ctx context.Context) ([]domain.MunicipalRecord, error) {
	return s.filter(ctx, func(domain.MunicipalRecord) bool { return true })
}

// ByUser returns the records submitted by userID.
func (s *Store) ByUser(ctx context.Context, userID int64) ([]domain.MunicipalRecord, error) {
	return s.filter(ctx, func(r domain.MunicipalRecord) bool { return r.UserID == userID })
}

// Pending returns records still awaiting cleanup.
func (s *Store) Pending(ctx context.Context) ([]domain.MunicipalRecord, error) {
	return s.filter(ctx, func(r domain.MunicipalRecord) bool { return r.Status == domain.StatusPending })
}

// Completed returns cleaned records.
func (s *Store) Completed(ctx context.Context) ([]domain.MunicipalRecord, error) {
	return s.filter(ctx, func(r domain.MunicipalRecord) bool { return r.Status == domain.StatusCleaned })
}

// OrgInfo returns the office directory stored in the document.
func (s *Store) OrgInfo(ctx context.Context) (domain.OrgInfo, error) {
	data, err := s.read(ctx)
	if err != nil {
		return domain.OrgInfo{}, err
	}
	return data.OrgInfo, nil
}

// Dashboard is the operator view of the document.
type Dashboard struct {
	Records   []domain.MunicipalRecord `json:"records"`
	Pending   int                      `json:"pending"`
	Completed int                      `json:"completed"`
	OrgInfo   domain.OrgInfo           `json:"orgInfo"`
}

// Dashboard returns every record with pending/completed counts from a
// single consistent read.
func (s *Store) Dashboard(ctx context.Context) (*Dashboard, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Records: data.Records, OrgInfo: data.OrgInfo}
	for _, r := range data.Records {
		switch r.Status {
		case domain.StatusPending:
			d.Pending++
		case domain.StatusCleaned:
			d.Completed++
		}
	}
	return d, nil
}

// Snapshot returns a copy of the whole document.
func (s *Store) Snapshot(ctx context.Context) (*domain.MunicipalData, error) {
	return s.read(ctx)
}

func (s *Store) filter(ctx context.Context, keep func(domain.MunicipalRecord) bool) ([]domain.MunicipalRecord, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MunicipalRecord, 0, len(data.Records))
	for _, r := range data.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// read loads the document under the lock. The returned value is a private
// copy decoded from the blob.
func (s *Store) read(ctx context.Context) (*domain.MunicipalData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load must be called with s.mu held. An absent document is created and
// persisted with empty records and the configured directory.
func (s *Store) load(ctx context.Context) (*domain.MunicipalData, error) {
	raw, err := s.blobs.GetBlob(ctx, s.key)
	if errors.Is(err, repo.ErrNotFound) {
		data := &domain.MunicipalData{
			Records:       []domain.MunicipalRecord{},
			OrgInfo:       s.org,
			StatusHistory: map[string]domain.StatusEntry{},
		}
		if err := s.save(ctx, data); err != nil {
			return nil, err
		}
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load municipal document: %w", err)
	}

	var data domain.MunicipalData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode municipal document: %w", err)
	}
	if data.Records == nil {
		data.Records = []domain.MunicipalRecord{}
	}
	if data.StatusHistory == nil {
		data.StatusHistory = map[string]domain.StatusEntry{}
	}
	return &data, nil
}

// save must be called with s.mu held.
func (s *Store) save(ctx context.Context, data *domain.MunicipalData) error {
	data.LastUpdate = s.now()
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode municipal document: %w", err)
	}
	if err := s.blobs.PutBlob(ctx, s.key, raw); err != nil {
		return fmt.Errorf("store municipal document: %w", err)
	}
	return nil
}

func indexOf(recs []domain.MunicipalRecord, id int64) int {
	for i := range recs {
		if recs[i].ID == id {
			return i
		}
	}
	return -1
}

func historyKey(id int64) string { return strconv.FormatInt(id, 10) }
