package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/capture"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/leaderboard"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// AccountService registers users, issues session tokens, and builds
// profile views.
type AccountService struct {
	DB     *gorm.DB
	Tokens *auth.JWTManager
	IDs    *IDGenerator

	// Sharer builds social links for ShareProfile. Nil means LinkSharer.
	Sharer capture.SocialShare
	// PublicURL is the page linked from share posts.
	PublicURL string
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Session is a logged-in user plus bearer token.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Profile is the user's own view with their all-time rank.
type Profile struct {
	User *domain.User `json:"user"`
	Rank int          `json:"rank"`
}

// Register creates an account and logs it in. Passwords are stored as
// given; credential hardening is not part of this service.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	ctx, span := otel.Tracer("services/AccountService").Start(ctx, "Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.Name == "":
		return nil, invalid("name", "required")
	case in.Email == "":
		return nil, invalid("email", "required")
	case in.Password == "":
		return nil, invalid("password", "required")
	case in.Phone == "":
		return nil, invalid("phone", "required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("email", "not a valid address")
	}

	u := &domain.User{
		ID:       s.IDs.Next(),
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
		JoinedAt: time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Str("email", u.Email).Msg("registration with existing email")
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	span.SetAttributes(attribute.Int64("user.id", u.ID))
	log.Info().Int64("user_id", u.ID).Msg("user registered")
	return s.session(u)
}

// Login checks credentials and issues a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := otel.Tracer("services/AccountService").Start(ctx, "Login")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// User loads a user by id.
func (s *AccountService) User(ctx context.Context, id int64) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Profile returns the user and their all-time rank.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	ctx, span := otel.Tracer("services/AccountService").Start(ctx, "Profile",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Rank: leaderboard.MyRank(users, userID)}, nil
}

// ShareText is the post a user shares about their contribution.
func ShareText(u *domain.User) string {
	return fmt.Sprintf("I've reported %d garbage spots and earned %d points on CleanCity! Join me in keeping our city clean.",
		u.ReportCount, u.Points)
}

// ShareProfile builds a share link for network, falling back to a
// clipboard copy when the network is unsupported.
func (s *AccountService) ShareProfile(ctx context.Context, userID int64, network string) (capture.ShareLink, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return capture.ShareLink{}, err
	}
	sharer := s.Sharer
	if sharer == nil {
		sharer = capture.LinkSharer{}
	}
	return capture.ShareOrCopy(ctx, sharer, network, ShareText(u), s.PublicURL)
}

func (s *AccountService) session(u *domain.User) (*Session, error) {
	tok, exp, err := s.Tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok, ExpiresAt: exp}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
