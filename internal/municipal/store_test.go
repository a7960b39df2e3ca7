package municipal

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// memBlobs is an in-memory Blobs with optional failure injection.
type memBlobs struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	putErr  error
	putHits int
}

func newMemBlobs() *memBlobs { return &memBlobs{data: map[string][]byte{}} }

func (m *memBlobs) GetBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memBlobs) PutBlob(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putHits++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(b Blobs) *Store {
	return NewStore(b, WithClock(func() time.Time { return fixedNow }))
}

func report(id, userID int64, sev domain.Severity) *domain.Report {
	return &domain.Report{
		ID:          id,
		UserID:      userID,
		GarbageType: domain.GarbagePlastic,
		Description: "bottles",
		Severity:    sev,
		Location:    domain.Location{Latitude: 40.7128, Longitude: -74.006},
		Status:      domain.StatusPending,
		CreatedAt:   fixedNow.Add(-time.Hour),
	}
}

func TestStore_AutoInitializesOnFirstAccess(t *testing.T) {
	b := newMemBlobs()
	s := newTestStore(b)

	info, err := s.OrgInfo(context.Background())
	if err != nil {
		t.Fatalf("OrgInfo: %v", err)
	}
	if info.Name != "City Municipal Office" || len(info.Departments) != 3 || len(info.Workers) != 3 {
		t.Fatalf("unexpected directory: %+v", info)
	}

	raw, ok := b.data[DefaultNamespace]
	if !ok {
		t.Fatal("document should be persisted on first access")
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"records", "orgInfo", "statusHistory", "lastUpdate"} {
		if _, ok := doc[k]; !ok {
			t.Fatalf("persisted document missing %q: %s", k, raw)
		}
	}
}

func TestStore_WithNamespaceAndOrgInfo(t *testing.T) {
	b := newMemBlobs()
	s := NewStore(b, WithNamespace("cityB"), WithOrgInfo(domain.OrgInfo{Name: "Town Hall"}))
	info, err := s.OrgInfo(context.Background())
	if err != nil || info.Name != "Town Hall" {
		t.Fatalf("OrgInfo = %+v, %v", info, err)
	}
	if _, ok := b.data["cityB"]; !ok {
		t.Fatal("expected document under custom namespace")
	}
	if s.Namespace() != "cityB" {
		t.Fatalf("Namespace() = %q", s.Namespace())
	}
}

func TestStore_AddRecord_DerivesPendingRecordAndHistory(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()

	rec, err := s.AddRecord(ctx, report(11, 1, domain.SeverityHigh), &domain.User{ID: 1, Name: "Ada", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	if rec.Status != domain.StatusPending || rec.Priority != 3 || rec.EstimatedTime != "4-6 hours" {
		t.Fatalf("unexpected derived fields: %+v", rec)
	}
	if rec.AssignedTo != nil || len(rec.Notes) != 0 {
		t.Fatalf("new record must be unassigned without notes: %+v", rec)
	}
	if rec.UserName != "Ada" || rec.UserEmail != "a@x.com" {
		t.Fatalf("owner not copied: %+v", rec)
	}

	st, err := s.StatusOf(ctx, 11)
	if err != nil {
		t.Fatalf("StatusOf: %v", err)
	}
	if st.Status != domain.StatusPending || st.SubmittedAt == nil || !st.SubmittedAt.Equal(fixedNow.Add(-time.Hour)) {
		t.Fatalf("unexpected history entry: %+v", st)
	}
}

func TestStore_AddRecord_IsNotIdempotent(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	r := report(5, 1, domain.SeverityLow)
	_, _ = s.AddRecord(ctx, r, nil)
	_, _ = s.AddRecord(ctx, r, nil)

	all, err := s.Records(ctx)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected duplicate records on double add, got %d", len(all))
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityMedium), nil)

	rec, err := s.UpdateStatus(ctx, 1, domain.StatusCleaned, "Report marked as cleaned by municipal office")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rec.Status != domain.StatusCleaned || rec.UpdatedAt == nil || !rec.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Notes) != 1 || rec.Notes[0].Author != OfficeAuthor || rec.Notes[0].Text == "" {
		t.Fatalf("note not appended: %+v", rec.Notes)
	}

	st, _ := s.StatusOf(ctx, 1)
	if st.Status != domain.StatusCleaned || !st.UpdatedAt.Equal(fixedNow) || st.SubmittedAt == nil {
		t.Fatalf("history not updated: %+v", st)
	}

	// Cleaning again leaves the record as it was, note included.
	rec, err = s.UpdateStatus(ctx, 1, domain.StatusCleaned, "Report marked as cleaned by municipal office")
	if err != nil || len(rec.Notes) != 1 || !rec.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("repeat clean: rec=%+v err=%v", rec, err)
	}
}

func TestStore_UpdateStatus_ConcurrentCleanAddsOneNote(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityMedium), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.UpdateStatus(ctx, 1, domain.StatusCleaned, "cleaned"); err != nil {
				t.Errorf("UpdateStatus: %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := s.Record(ctx, 1)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Notes) != 1 {
		t.Fatalf("expected one note, got %d: %+v", len(rec.Notes), rec.Notes)
	}
}

func TestStore_UpdateStatus_Errors(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityMedium), nil)

	if _, err := s.UpdateStatus(ctx, 404, domain.StatusCleaned, ""); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := s.UpdateStatus(ctx, 1, "in-progress", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	_, _ = s.UpdateStatus(ctx, 1, domain.StatusCleaned, "")
	if _, err := s.UpdateStatus(ctx, 1, domain.StatusPending, ""); !errors.Is(err, ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}
	st, _ := s.StatusOf(ctx, 1)
	if st.Status != domain.StatusCleaned {
		t.Fatalf("rejected regression must not change status, got %q", st.Status)
	}
}

func TestStore_Filters(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityLow), nil)
	_, _ = s.AddRecord(ctx, report(2, 2, domain.SeverityLow), nil)
	_, _ = s.AddRecord(ctx, report(3, 1, domain.SeverityLow), nil)
	_, _ = s.UpdateStatus(ctx, 3, domain.StatusCleaned, "")

	mine, _ := s.ByUser(ctx, 1)
	if len(mine) != 2 || mine[0].ID != 1 || mine[1].ID != 3 {
		t.Fatalf("ByUser: %+v", mine)
	}
	pending, _ := s.Pending(ctx)
	if len(pending) != 2 {
		t.Fatalf("Pending: %+v", pending)
	}
	done, _ := s.Completed(ctx)
	if len(done) != 1 || done[0].ID != 3 {
		t.Fatalf("Completed: %+v", done)
	}
	none, _ := s.ByUser(ctx, 99)
	if none == nil || len(none) != 0 {
		t.Fatalf("ByUser for unknown user should be empty, got %+v", none)
	}
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityLow), nil)

	if err := s.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Record(ctx, 1); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := s.StatusOf(ctx, 1); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("status entry should be removed, got %v", err)
	}
	if err := s.Remove(ctx, 1); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestStore_BlobFailuresPropagate(t *testing.T) {
	b := newMemBlobs()
	b.getErr = errors.New("disk gone")
	s := newTestStore(b)
	if _, err := s.Records(context.Background()); err == nil || errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}

	b2 := newMemBlobs()
	b2.putErr = errors.New("read-only")
	s2 := newTestStore(b2)
	if _, err := s2.AddRecord(context.Background(), report(1, 1, domain.SeverityLow), nil); err == nil {
		t.Fatal("expected save failure")
	}
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := s.AddRecord(ctx, report(id, 1, domain.SeverityLow), nil); err != nil {
				t.Errorf("AddRecord(%d): %v", id, err)
			}
		}(int64(i))
	}
	wg.Wait()

	all, _ := s.Records(ctx)
	if len(all) != n {
		t.Fatalf("lost updates: want %d records, got %d", n, len(all))
	}
}

func TestLoadOrgInfo(t *testing.T) {
	info, err := LoadOrgInfo("")
	if err != nil || info.Name != DefaultOrgInfo().Name {
		t.Fatalf("empty path should yield default, got %+v %v", info, err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "org.yaml")
	yml := "name: Riverside Council\naddress: 1 River Rd\nphone: \"555\"\nemail: council@river.gov\nhours: 24/7\n" +
		"departments:\n  - name: Sanitation\n    phone: \"556\"\n" +
		"workers:\n  - id: 9\n    name: Pat\n    department: Sanitation\n    status: available\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err = LoadOrgInfo(path)
	if err != nil {
		t.Fatalf("LoadOrgInfo: %v", err)
	}
	if info.Name != "Riverside Council" || len(info.Departments) != 1 || info.Workers[0].ID != 9 {
		t.Fatalf("unexpected directory: %+v", info)
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("address: nowhere\n"), 0o600)
	if _, err := LoadOrgInfo(bad); err == nil {
		t.Fatal("expected error for directory without name")
	}
	if _, err := LoadOrgInfo(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStore_Dashboard(t *testing.T) {
	s := newTestStore(newMemBlobs())
	ctx := context.Background()
	_, _ = s.AddRecord(ctx, report(1, 1, domain.SeverityLow), nil)
	_, _ = s.AddRecord(ctx, report(2, 1, domain.SeverityCritical), nil)
	_, _ = s.UpdateStatus(ctx, 2, domain.StatusCleaned, "")

	d, err := s.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.Records) != 2 || d.Pending != 1 || d.Completed != 1 || d.OrgInfo.Name == "" {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
}
