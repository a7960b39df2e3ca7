package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/municipal"
)

// Engine answers free text and dispatches button actions. It holds no
// per-conversation state and is safe for concurrent use.
type Engine struct {
	dir   Directory
	rules []rule
}

// New returns an Engine reading municipal data from dir.
func New(dir Directory) *Engine {
	return &Engine{dir: dir, rules: defaultRules()}
}

// RuleNames lists the free-text rules in evaluation order.
func RuleNames() []string {
	rs := defaultRules()
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}

// Respond returns the reply of the first rule matching text. user is nil
// for guests. Respond never mutates municipal or report state.
func (e *Engine) Respond(ctx context.Context, user *domain.User, text string) (Response, error) {
	l := lower(text)
	for _, r := range e.rules {
		if !r.matches(l) {
			continue
		}
		resp, err := r.reply(ctx, e, user, text)
		if err != nil {
			return Response{}, fmt.Errorf("assistant rule %s: %w", r.name, err)
		}
		resp.Rule = r.name
		return resp, nil
	}
	// The fallback rule always matches.
	return Response{}, errors.New("assistant: no rule matched")
}

// Action tokens.
const (
	ActionCheckStatusPrefix   = "check-status-"
	ActionViewReports         = "view-reports"
	ActionMunicipalInfo       = "municipal-info"
	ActionNavigateReport      = "navigate-report"
	ActionNavigateLogin       = "navigate-login"
	ActionNavigateLeaderboard = "navigate-leaderboard"
	ActionOpenDashboard       = "open-dashboard"
	ActionReportGarbage       = "report-garbage"
	ActionHowToReport         = "how-to-report"
	ActionCameraHelp          = "camera-help"
	ActionLocationHelp        = "location-help"
	ActionHelp                = "help"
	ActionViewDepartments     = "view-departments"
)

// CheckStatusAction returns the action token that shows a report's status.
func CheckStatusAction(reportID int64) string {
	return ActionCheckStatusPrefix + strconv.FormatInt(reportID, 10)
}

var navigation = map[string]Response{
	ActionNavigateReport:      {Text: "I've scrolled to the report section for you! 📋", Directive: "scroll:report"},
	ActionNavigateLogin:       {Text: "Opening login modal for you! 🔐", Directive: "open:login"},
	ActionNavigateLeaderboard: {Text: "I've scrolled to the leaderboard for you! 🏆", Directive: "scroll:leaderboard"},
	ActionOpenDashboard:       {Text: "Opening municipal dashboard! 🏛️", Directive: "open:dashboard"},
}

// HandleAction dispatches an action token and returns the assistant turns it
// produces. Unknown tokens and unknown report ids yield no turns and no
// error.
func (e *Engine) HandleAction(ctx context.Context, user *domain.User, action string) ([]Response, error) {
	action = strings.TrimSpace(action)

	if rest, ok := strings.CutPrefix(action, ActionCheckStatusPrefix); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, nil
		}
		rec, err := e.dir.Record(ctx, id)
		if errors.Is(err, municipal.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Response{tagged(strings.TrimSuffix(ActionCheckStatusPrefix, "-"), Response{Card: statusCard(rec)})}, nil
	}

	if nav, ok := navigation[action]; ok {
		nav.Rule = action
		return []Response{nav}, nil
	}

	switch action {
	case ActionViewReports:
		if user == nil {
			return []Response{tagged(action, Response{Text: "Please login to view your reports."})}, nil
		}
		recs, err := e.dir.ByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return []Response{tagged(action, Response{Text: "You haven't submitted any reports yet."})}, nil
		}
		out := make([]Response, 0, len(recs))
		for i := range recs {
			out = append(out, tagged(action, Response{Card: statusCard(&recs[i])}))
		}
		return out, nil

	case ActionMunicipalInfo:
		card, err := e.municipalityCard(ctx)
		if err != nil {
			return nil, err
		}
		return []Response{tagged(action, Response{Card: card})}, nil

	case ActionReportGarbage, ActionHowToReport:
		resp, err := e.Respond(ctx, user, "how to report")
		if err != nil {
			return nil, err
		}
		resp.Suggestions = nil
		return []Response{tagged(action, resp)}, nil

	case ActionCameraHelp:
		return []Response{tagged(action, Response{Text: "📸 Camera troubleshooting tips:\n\n• Allow camera permissions when prompted\n• Ensure good lighting for clear photos\n• Hold device steady while capturing\n• Try refreshing if camera doesn't work\n• Use back camera on mobile for better quality"})}, nil

	case ActionLocationHelp:
		return []Response{tagged(action, Response{Text: "📍 Location services help:\n\n• Allow location access when prompted\n• Enable GPS on your device\n• Location helps municipal workers find spots\n• Refresh page if location isn't detected\n• Location is required for all reports"})}, nil

	case ActionHelp:
		resp, err := e.Respond(ctx, user, "help")
		if err != nil {
			return nil, err
		}
		// Only the text is shown for the help action.
		return []Response{tagged(action, Response{Text: resp.Text})}, nil

	case ActionViewDepartments:
		info, err := e.dir.OrgInfo(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("🏛️ Municipal Departments:\n\n")
		for _, d := range info.Departments {
			fmt.Fprintf(&b, "• %s\n  📞 %s\n\n", d.Name, d.Phone)
		}
		return []Response{tagged(action, Response{Text: b.String()})}, nil
	}

	return nil, nil
}

func tagged(action string, r Response) Response {
	r.Rule = action
	return r
}

func (e *Engine) municipalityCard(ctx context.Context) (*domain.Card, error) {
	info, err := e.dir.OrgInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Card{
		Type:  domain.CardMunicipalityInfo,
		Title: "🏛️ " + info.Name,
		Content: []domain.CardItem{
			{Label: "📍 Address", Value: info.Address},
			{Label: "📞 Phone", Value: info.Phone},
			{Label: "✉️ Email", Value: info.Email},
			{Label: "🕐 Hours", Value: info.Hours},
		},
		Departments: append([]domain.Department(nil), info.Departments...),
	}, nil
}

func statusCard(r *domain.MunicipalRecord) *domain.Card {
	ts := r.Timestamp
	return &domain.Card{
		Type:          domain.CardReportStatus,
		ReportID:      r.ID,
		Status:        r.Status,
		GarbageType:   string(r.GarbageType),
		Severity:      r.Severity,
		EstimatedTime: r.EstimatedTime,
		Timestamp:     &ts,
	}
}
