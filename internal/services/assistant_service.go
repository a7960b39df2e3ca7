// AssistantService keeps per-session assistant state (open, composing,
// seen) and persists transcripts. Replies come from assistant.Engine.
//
// Sessions are keyed "user:<id>" for logged-in users and "guest:<id>" for
// anonymous clients. Open/composing state lives in memory; the seen flag is
// stored in the blob store and the transcript in the conversation_turns
// table.

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/assistant"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/municipal"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// DefaultMaxPromptRunes caps assistant input.
const DefaultMaxPromptRunes = 2000

const seenKeyPrefix = "hasSeenAssistant:"

// UserSession is the session key of a logged-in user.
func UserSession(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }

// GuestSession is the session key of an anonymous client.
func GuestSession(clientID string) string { return "guest:" + strings.TrimSpace(clientID) }

// AssistantState is the client-visible session state.
type AssistantState struct {
	SessionID   string `json:"session_id"`
	IsOpen      bool   `json:"is_open"`
	IsComposing bool   `json:"is_composing"`
	HasSeen     bool   `json:"has_seen"`
	ShowBadge   bool   `json:"show_badge"`
}

// assistantSession exists only while a session is open or composing.
type assistantSession struct {
	open      bool
	composing bool
}

// AssistantService runs assistant conversations.
type AssistantService struct {
	DB     *gorm.DB
	Engine *assistant.Engine
	// Blobs stores the seen flag.
	Blobs municipal.Blobs
	// Pacer delays each reply; nil means no delay.
	Pacer          assistant.Pacer
	MaxPromptRunes int

	mu       sync.Mutex
	sessions map[string]*assistantSession
	// last is the newest turn timestamp handed out by stamp.
	last time.Time
}

func (s *AssistantService) session(id string) *assistantSession {
	if s.sessions == nil {
		s.sessions = map[string]*assistantSession{}
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = &assistantSession{}
		s.sessions[id] = sess
	}
	return sess
}

// State reports the session state.
func (s *AssistantService) State(ctx context.Context, sessionID string) (*AssistantState, error) {
	seen, err := s.hasSeen(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var open, composing bool
	if sess, ok := s.sessions[sessionID]; ok {
		open, composing = sess.open, sess.composing
	}
	return &AssistantState{
		SessionID:   sessionID,
		IsOpen:      open,
		IsComposing: composing,
		HasSeen:     seen,
		ShowBadge:   !seen && !open,
	}, nil
}

// Open opens the assistant and records that the client has seen it.
func (s *AssistantService) Open(ctx context.Context, sessionID string) (*AssistantState, error) {
	if err := s.Blobs.PutBlob(ctx, seenKeyPrefix+sessionID, []byte("true")); err != nil {
		return nil, fmt.Errorf("store seen flag: %w", err)
	}
	s.mu.Lock()
	s.session(sessionID).open = true
	s.mu.Unlock()
	return s.State(ctx, sessionID)
}

// Close closes the assistant.
func (s *AssistantService) Close(ctx context.Context, sessionID string) (*AssistantState, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.open = false
		if !sess.composing {
			delete(s.sessions, sessionID)
		}
	}
	s.mu.Unlock()
	return s.State(ctx, sessionID)
}

// Send appends the user's text and the assistant reply to the transcript
// and returns both turns. Only one Send per session runs at a time.
func (s *AssistantService) Send(ctx context.Context, sessionID string, user *domain.User, text string) ([]domain.ConversationTurn, error) {
	ctx, span := otel.Tracer("services/AssistantService").Start(ctx, "Send",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPrompt
	}
	limit := s.MaxPromptRunes
	if limit <= 0 {
		limit = DefaultMaxPromptRunes
	}
	if utf8.RuneCountInString(text) > limit {
		return nil, ErrTooLong
	}

	if !s.beginComposing(sessionID) {
		return nil, ErrComposing
	}
	defer s.endComposing(sessionID)

	userTurn, err := s.appendTurn(ctx, sessionID, domain.SenderUser, assistant.Response{Text: text})
	if err != nil {
		return nil, err
	}

	if s.Pacer != nil {
		if err := s.Pacer.Pause(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := s.Engine.Respond(ctx, user, text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("assistant.rule", resp.Rule))
	botTurn, err := s.appendTurn(ctx, sessionID, domain.SenderAssistant, resp)
	if err != nil {
		return nil, err
	}
	return []domain.ConversationTurn{*userTurn, *botTurn}, nil
}

// Action dispatches a button action and returns the assistant turns it
// produced, possibly none.
func (s *AssistantService) Action(ctx context.Context, sessionID string, user *domain.User, action string) ([]domain.ConversationTurn, error) {
	ctx, span := otel.Tracer("services/AssistantService").Start(ctx, "Action",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("assistant.action", action),
		),
	)
	defer span.End()

	resps, err := s.Engine.HandleAction(ctx, user, action)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ConversationTurn, 0, len(resps))
	for _, r := range resps {
		t, err := s.appendTurn(ctx, sessionID, domain.SenderAssistant, r)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// History returns a page of the transcript and the total turn count.
func (s *AssistantService) History(ctx context.Context, sessionID string, page, pageSize int) ([]domain.ConversationTurn, int64, error) {
	ctx, span := otel.Tracer("services/AssistantService").Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountTurns(ctx, s.DB, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ConversationTurn{}, 0, nil
	}
	items, err := repo.ListTurnsPage(ctx, s.DB, sessionID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Version returns the transcript size and latest update for ETags.
func (s *AssistantService) Version(ctx context.Context, sessionID string) (int64, *time.Time, error) {
	return repo.TurnsStats(ctx, s.DB, sessionID)
}

// NotifyUser appends resp to the user's session if it is open. Closed
// sessions are skipped.
func (s *AssistantService) NotifyUser(ctx context.Context, userID int64, resp assistant.Response) error {
	sid := UserSession(userID)
	s.mu.Lock()
	sess, ok := s.sessions[sid]
	open := ok && sess.open
	s.mu.Unlock()
	if !open {
		return nil
	}
	_, err := s.appendTurn(ctx, sid, domain.SenderAssistant, resp)
	return err
}

func (s *AssistantService) beginComposing(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	if sess.composing {
		return false
	}
	sess.composing = true
	return true
}

func (s *AssistantService) endComposing(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.composing = false
		if !sess.open {
			delete(s.sessions, sessionID)
		}
	}
}

// stamp returns a timestamp strictly after every earlier turn so transcript
// order survives equal clock readings.
func (s *AssistantService) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func (s *AssistantService) appendTurn(ctx context.Context, sessionID string, sender domain.Sender, r assistant.Response) (*domain.ConversationTurn, error) {
	t := &domain.ConversationTurn{
		SessionID:   sessionID,
		Sender:      sender,
		Text:        r.Text,
		Buttons:     r.Buttons,
		Card:        r.Card,
		Suggestions: r.Suggestions,
		Directive:   r.Directive,
		CreatedAt:   s.stamp(),
	}
	if err := repo.CreateTurn(ctx, s.DB, t); err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	if sender == domain.SenderAssistant {
		rule := r.Rule
		if rule == "" {
			rule = "unknown"
		}
		assistantReplies.WithLabelValues(rule).Inc()
	}
	return t, nil
}

func (s *AssistantService) hasSeen(ctx context.Context, sessionID string) (bool, error) {
	v, err := s.Blobs.GetBlob(ctx, seenKeyPrefix+sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("read seen flag")
		return false, err
	}
	return string(v) == "true", nil
}
