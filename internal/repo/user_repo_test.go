package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

func TestCreateUser_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	err := CreateUser(context.Background(), db, &domain.User{ID: 1, Email: "a@x.com"})
	if err == nil {
		t.Fatal("expected error creating without table")
	}
}

func TestCreateUser_SetsJoinedAtAndRejectsDuplicateEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	u := seedUser(t, db, 1, "a@x.com")
	if u.JoinedAt.IsZero() {
		t.Fatal("JoinedAt should be defaulted")
	}

	err := CreateUser(ctx, db, &domain.User{ID: 2, Name: "b", Email: "a@x.com", Password: "pw", Phone: "1"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUser_And_ByEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()
	seedUser(t, db, 7, "seven@x.com")

	got, err := GetUser(ctx, db, 7)
	if err != nil || got.Email != "seven@x.com" {
		t.Fatalf("GetUser: got=%+v err=%v", got, err)
	}
	got, err = GetUserByEmail(ctx, db, "seven@x.com")
	if err != nil || got.ID != 7 {
		t.Fatalf("GetUserByEmail: got=%+v err=%v", got, err)
	}
	if _, err := GetUser(ctx, db, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetUserByEmail(ctx, db, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_OrderedByID(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, 30, "c@x.com")
	seedUser(t, db, 10, "a@x.com")
	seedUser(t, db, 20, "b@x.com")

	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 || users[0].ID != 10 || users[1].ID != 20 || users[2].ID != 30 {
		t.Fatalf("unexpected order: %+v", users)
	}
}

func TestIncrementUserStats(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()
	seedUser(t, db, 1, "a@x.com")

	if err := IncrementUserStats(ctx, db, 1, 15); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := IncrementUserStats(ctx, db, 1, 10); err != nil {
		t.Fatalf("increment: %v", err)
	}
	u, _ := GetUser(ctx, db, 1)
	if u.Points != 25 || u.ReportCount != 2 {
		t.Fatalf("want points=25 reports=2, got %+v", u)
	}

	if err := IncrementUserStats(ctx, db, 99, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}
