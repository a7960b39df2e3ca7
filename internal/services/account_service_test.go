package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/cleancity-backend/internal/capture"
	"github.com/tbourn/cleancity-backend/internal/domain"
)

func TestAccountService_Register_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		in    RegisterInput
		field string
	}{
		{RegisterInput{Email: "a@x.com", Password: "p", Phone: "1"}, "name"},
		{RegisterInput{Name: "A", Password: "p", Phone: "1"}, "email"},
		{RegisterInput{Name: "A", Email: "a@x.com", Phone: "1"}, "password"},
		{RegisterInput{Name: "A", Email: "a@x.com", Password: "p"}, "phone"},
		{RegisterInput{Name: "A", Email: "not-an-email", Password: "p", Phone: "1"}, "email"},
	}
	for _, tc := range cases {
		_, err := f.accounts.Register(ctx, tc.in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("Register(%+v): want validation error on %s, got %v", tc.in, tc.field, err)
		}
	}
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.accounts.Register(ctx, RegisterInput{Name: " Ada ", Email: " Ada@X.com ", Password: "pw", Phone: "555"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if s.User.Email != "ada@x.com" || s.User.Name != "Ada" || s.User.Points != 0 || s.Token == "" {
		t.Fatalf("unexpected session: %+v %+v", s, s.User)
	}
	claims, err := f.accounts.Tokens.VerifyToken(s.Token)
	if err != nil || claims.UserID != s.User.ID {
		t.Fatalf("token does not verify: %+v %v", claims, err)
	}

	if _, err := f.accounts.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@x.com", Password: "pw", Phone: "1"}); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	in, err := f.accounts.Login(ctx, "ADA@x.com", "pw")
	if err != nil || in.User.ID != s.User.ID {
		t.Fatalf("Login: %+v %v", in, err)
	}
	for _, bad := range [][2]string{{"ada@x.com", "nope"}, {"who@x.com", "pw"}, {"", ""}} {
		if _, err := f.accounts.Login(ctx, bad[0], bad[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login(%q,%q): expected ErrInvalidCredentials, got %v", bad[0], bad[1], err)
		}
	}
}

func TestAccountService_ProfileRank(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	b := f.register(t, "B", "b@x.com")
	if _, err := f.reports.Submit(ctx, b.ID, validInput(domain.SeverityCritical)); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	pa, err := f.accounts.Profile(ctx, a.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	pb, _ := f.accounts.Profile(ctx, b.ID)
	if pb.Rank != 1 || pa.Rank != 2 || pb.User.Points != 25 {
		t.Fatalf("ranks a=%d b=%d points=%d", pa.Rank, pb.Rank, pb.User.Points)
	}
	if _, err := f.accounts.Profile(ctx, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_ShareProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com")

	link, err := f.accounts.ShareProfile(ctx, u.ID, capture.NetworkTwitter)
	if err != nil {
		t.Fatalf("ShareProfile: %v", err)
	}
	if link.Network != capture.NetworkTwitter || !strings.Contains(link.URL, "twitter.com") {
		t.Fatalf("unexpected link: %+v", link)
	}

	copyLink, err := f.accounts.ShareProfile(ctx, u.ID, "myspace")
	if err != nil {
		t.Fatalf("ShareProfile fallback: %v", err)
	}
	if copyLink.Network != capture.NetworkClipboard || !copyLink.Clipboard || !strings.Contains(copyLink.Text, "CleanCity") {
		t.Fatalf("unexpected clipboard fallback: %+v", copyLink)
	}
	if got := ShareText(u); !strings.Contains(got, "0 garbage spots") {
		t.Fatalf("ShareText = %q", got)
	}
}
