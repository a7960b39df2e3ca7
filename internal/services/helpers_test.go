package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/cleancity-backend/internal/assistant"
	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/capture"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/municipal"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "svc.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// memBlobs is an in-memory municipal.Blobs.
type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memBlobs) GetBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memBlobs) PutBlob(_ context.Context, key string, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), v...)
	return nil
}

type fakePhoto struct {
	photo capture.Photo
	err   error
	// gate, when set, blocks Capture until closed.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakePhoto) Capture(context.Context) (capture.Photo, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.photo, f.err
}

type fakeLocation struct {
	pos capture.Position
	err error
}

func (f fakeLocation) Position(context.Context) (capture.Position, error) { return f.pos, f.err }

func okPhoto() *fakePhoto {
	return &fakePhoto{photo: capture.Photo{Data: []byte("\xff\xd8\xff"), ContentType: "image/jpeg"}}
}

func okLocation() fakeLocation {
	return fakeLocation{pos: capture.Position{Latitude: 40.7128, Longitude: -74.006}}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[int64][]assistant.Response
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID int64, r assistant.Response) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[int64][]assistant.Response{}
	}
	n.sent[userID] = append(n.sent[userID], r)
	return nil
}

type fixture struct {
	db       *gorm.DB
	store    *municipal.Store
	ids      *IDGenerator
	accounts *AccountService
	reports  *ReportService
	notes    *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newSvcDB(t)
	store := municipal.NewStore(&memBlobs{})
	ids := NewIDGenerator()
	notes := &recordingNotifier{}
	return &fixture{
		db:    db,
		store: store,
		ids:   ids,
		notes: notes,
		accounts: &AccountService{
			DB: db, IDs: ids, Tokens: auth.NewJWTManager("test", time.Hour),
			PublicURL: "https://cleancity.example/",
		},
		reports: &ReportService{
			DB: db, Records: store, IDs: ids, Notifier: notes, IdempotencyTTL: time.Hour,
		},
	}
}

func (f *fixture) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	s, err := f.accounts.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "pw", Phone: "555"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return s.User
}

func validInput(sev domain.Severity) SubmitInput {
	return SubmitInput{
		GarbageType: domain.GarbagePlastic,
		Severity:    sev,
		Description: "bottles by the bench",
		Photo:       okPhoto(),
		Location:    okLocation(),
	}
}
