// Package leaderboard orders users by points.
//
// Ranking is pure: callers pass users in creation order and that order is
// the tie-breaker. The "week" period keeps users whose account was created
// strictly within the last seven days; it measures account age, not recent
// activity.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// DisplayLimit is the number of rows shown on the board.
const DisplayLimit = 10

// Period selects which users take part in a ranking.
type Period string

const (
	PeriodAll  Period = "all"
	PeriodWeek Period = "week"
)

const weekWindow = 7 * 24 * time.Hour

// ParsePeriod maps a query value to a Period. "month" is accepted and
// behaves like "all".
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "month":
		return PeriodAll, nil
	case "week":
		return PeriodWeek, nil
	default:
		return "", fmt.Errorf("unknown leaderboard period %q", s)
	}
}

// Entry is one ranked row. Position is 1-based.
type Entry struct {
	Position int         `json:"position"`
	User     domain.User `json:"user"`
}

// Rank returns every user eligible for period, sorted by points descending.
// Equal points keep their input order.
func Rank(users []domain.User, period Period, now time.Time) []Entry {
	eligible := make([]domain.User, 0, len(users))
	for _, u := range users {
		if period == PeriodWeek && !u.JoinedAt.After(now.Add(-weekWindow)) {
			continue
		}
		eligible = append(eligible, u)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Points > eligible[j].Points
	})

	out := make([]Entry, len(eligible))
	for i, u := range eligible {
		out[i] = Entry{Position: i + 1, User: u}
	}
	return out
}

// Top is Rank truncated to n rows.
func Top(users []domain.User, period Period, now time.Time, n int) []Entry {
	ranked := Rank(users, period, now)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MyRank returns the 1-based all-time position of userID, or 0 when the
// user is not in users.
func MyRank(users []domain.User, userID int64) int {
	for _, e := range Rank(users, PeriodAll, time.Time{}) {
		if e.User.ID == userID {
			return e.Position
		}
	}
	return 0
}
