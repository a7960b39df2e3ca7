// Package assistant is the CleanCity help assistant: an ordered list of
// keyword rules answering free text, and a fixed vocabulary of button
// actions.
//
// Matching lower-cases the input and tests substring containment, so
// "reporting" matches "report" and "this" matches "hi". Rules are evaluated
// in the order returned by RuleNames and the first match wins.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// Rule names, in precedence order.
const (
	RuleGreeting    = "greeting"
	RuleReport      = "report"
	RuleCamera      = "camera"
	RuleLocation    = "location"
	RulePoints      = "points"
	RuleAccount     = "account"
	RuleLeaderboard = "leaderboard"
	RuleMunicipal   = "municipal"
	RuleStatus      = "status"
	RuleDashboard   = "dashboard"
	RuleHelp        = "help"
	RuleThanks      = "thanks"
	RuleFallback    = "fallback"
)

// Response is one assistant turn.
type Response struct {
	Text        string          `json:"text,omitempty"`
	Buttons     []domain.Button `json:"buttons,omitempty"`
	Card        *domain.Card    `json:"card,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	// Directive asks the client to navigate, e.g. "scroll:report".
	Directive string `json:"directive,omitempty"`
	// Rule is the name of the rule or action that produced the response.
	Rule string `json:"-"`
}

// Directory is the read-only view of municipal data the assistant consults.
type Directory interface {
	OrgInfo(ctx context.Context) (domain.OrgInfo, error)
	ByUser(ctx context.Context, userID int64) ([]domain.MunicipalRecord, error)
	Record(ctx context.Context, reportID int64) (*domain.MunicipalRecord, error)
}

type replyFunc func(ctx context.Context, e *Engine, user *domain.User, raw string) (Response, error)

type rule struct {
	name     string
	keywords []string
	reply    replyFunc
}

func (r rule) matches(lower string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	btnReportGarbage = domain.Button{Text: "📋 Report Garbage", Action: "report-garbage"}
	btnMyReports     = domain.Button{Text: "📊 My Reports", Action: "view-reports"}
	btnMunicipalInfo = domain.Button{Text: "🏛️ Municipal Info", Action: "municipal-info"}
	btnHelp          = domain.Button{Text: "❓ Help", Action: "help"}
	btnMoreHelp      = domain.Button{Text: "❓ More Help", Action: "help"}
	btnReportNow     = domain.Button{Text: "🚀 Report Now", Action: "navigate-report"}
	btnLeaderboard   = domain.Button{Text: "📊 View Leaderboard", Action: "navigate-leaderboard"}
	btnLogin         = domain.Button{Text: "🔐 Login", Action: "navigate-login"}
)

func static(r Response) replyFunc {
	return func(context.Context, *Engine, *domain.User, string) (Response, error) {
		r.Buttons = append([]domain.Button(nil), r.Buttons...)
		r.Suggestions = append([]string(nil), r.Suggestions...)
		return r, nil
	}
}

// defaultRules is the precedence-ordered rule list. Broad rules (help,
// thanks) sit after the specific ones they would otherwise shadow.
func defaultRules() []rule {
	return []rule{
		{RuleGreeting, []string{"hello", "hi", "hey"}, static(Response{
			Text:        "👋 Hello! I'm your CleanCity Assistant! I'm here to help you keep our city clean. What would you like to know?",
			Buttons:     []domain.Button{btnReportGarbage, btnMyReports, btnMunicipalInfo, btnHelp},
			Suggestions: []string{"How do I report garbage?", "Check my report status", "Municipal office contact"},
		})},
		{RuleReport, []string{"report", "garbage", "submit"}, static(Response{
			Text: "📋 Here's how to report garbage:\n\n1️⃣ Click \"Report Garbage Now\" button\n2️⃣ Allow camera and location access\n3️⃣ Take a photo of the garbage spot\n4️⃣ Select garbage type and severity\n5️⃣ Add description and submit\n\n💰 You'll earn points based on severity:\n• Low: 5 points\n• Medium: 10 points\n• High: 15 points\n• Critical: 25 points",
			Buttons: []domain.Button{
				btnReportNow,
				{Text: "📸 Camera Help", Action: "camera-help"},
				{Text: "📍 Location Help", Action: "location-help"},
			},
		})},
		{RuleCamera, []string{"camera", "photo", "picture"}, static(Response{
			Text:    "📸 Camera troubleshooting:\n\n• Make sure you've allowed camera permissions\n• Try refreshing the page and allowing access again\n• Use a well-lit area for better photos\n• Hold your device steady while taking photos\n• If issues persist, try using a different browser",
			Buttons: []domain.Button{btnReportNow, btnMoreHelp},
		})},
		{RuleLocation, []string{"location", "gps", "where"}, static(Response{
			Text:    "📍 Location services help:\n\n• Allow location access when prompted\n• Make sure GPS is enabled on your device\n• Try refreshing the page if location isn't detected\n• Location is required to submit reports\n• Your location helps municipal workers find garbage spots",
			Buttons: []domain.Button{btnReportNow, btnMoreHelp},
		})},
		{RulePoints, []string{"point", "reward", "earn"}, static(Response{
			Text:    "💰 Earning points in CleanCity:\n\n• Low severity garbage: 5 points\n• Medium severity garbage: 10 points\n• High severity garbage: 15 points\n• Critical severity garbage: 25 points\n\nPoints help you climb the leaderboard and show your contribution to keeping the city clean!",
			Buttons: []domain.Button{btnLeaderboard, btnReportGarbage},
		})},
		{RuleAccount, []string{"login", "register", "account"}, static(Response{
			Text:    "🔐 Account help:\n\n• Click the \"Login\" button in the top navigation\n• Use demo accounts: john@example.com (password123) or jane@example.com (password123)\n• Or register a new account with your details\n• You need to be logged in to submit reports and earn points",
			Buttons: []domain.Button{btnLogin},
		})},
		{RuleLeaderboard, []string{"leaderboard", "rank", "top"}, static(Response{
			Text:    "🏆 Leaderboard features:\n\n• View top contributors in your community\n• Filter by time period (week/month/all-time)\n• See how many reports each user has submitted\n• Track your own ranking and progress\n• Compete with other community members!",
			Buttons: []domain.Button{btnLeaderboard},
		})},
		{RuleMunicipal, []string{"municipal", "office", "city hall"}, replyMunicipal},
		{RuleStatus, []string{"status", "check", "track"}, replyStatus},
		{RuleDashboard, []string{"dashboard", "admin"}, static(Response{
			Text:    "🔐 Municipal Dashboard Access:\n\n• Press Ctrl + M to open the dashboard\n• View all submitted reports\n• Mark reports as cleaned\n• Export data for analysis\n• Track pending and completed reports",
			Buttons: []domain.Button{{Text: "🔓 Open Dashboard", Action: "open-dashboard"}},
		})},
		{RuleHelp, []string{"help", "how", "what"}, static(Response{
			Text:    "❓ I can help you with:\n\n• How to report garbage spots\n• Camera and location troubleshooting\n• Understanding the points system\n• Account login and registration\n• Using the leaderboard\n• Municipal dashboard access\n\nJust ask me about any of these topics!",
			Buttons: []domain.Button{btnReportGarbage, btnMyReports, btnMunicipalInfo},
		})},
		{RuleThanks, []string{"thank", "thanks"}, static(Response{
			Text:    "You're welcome! I'm always here to help. Feel free to ask if you have any other questions about CleanCity! 😊",
			Buttons: []domain.Button{btnReportGarbage, btnMoreHelp},
		})},
		{RuleFallback, nil, replyFallback},
	}
}

func replyMunicipal(ctx context.Context, e *Engine, _ *domain.User, _ string) (Response, error) {
	card, err := e.municipalityCard(ctx)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Card: card,
		Buttons: []domain.Button{
			{Text: "📋 View Departments", Action: "view-departments"},
			{Text: "📊 Dashboard", Action: "open-dashboard"},
		},
	}, nil
}

// maxStatusButtons caps the per-report buttons of the status reply.
const maxStatusButtons = 5

func replyStatus(ctx context.Context, e *Engine, user *domain.User, _ string) (Response, error) {
	if user == nil {
		return Response{Text: "Please login to check your report status.", Buttons: []domain.Button{btnLogin}}, nil
	}
	recs, err := e.dir.ByUser(ctx, user.ID)
	if err != nil {
		return Response{}, err
	}
	if len(recs) == 0 {
		return Response{
			Text: "You haven't submitted any reports yet. Would you like to report a garbage spot?",
			Buttons: []domain.Button{
				{Text: "📋 Report Garbage", Action: "navigate-report"},
				{Text: "❓ How to Report", Action: "how-to-report"},
			},
		}, nil
	}
	n := min(len(recs), maxStatusButtons)
	buttons := make([]domain.Button, 0, n)
	for _, r := range recs[:n] {
		buttons = append(buttons, domain.Button{
			Text:   fmt.Sprintf("Report #%d - %s", r.ID, r.Status),
			Action: CheckStatusAction(r.ID),
		})
	}
	return Response{
		Text:    fmt.Sprintf("📊 You have %d report(s) submitted to the municipal office.", len(recs)),
		Buttons: buttons,
	}, nil
}

func replyFallback(_ context.Context, _ *Engine, _ *domain.User, raw string) (Response, error) {
	return Response{
		Text:    fmt.Sprintf("I understand you're asking about \"%s\". I can help you with:\n\n• Reporting garbage spots\n• Camera and location issues\n• Earning points and rewards\n• Account management\n• Using the leaderboard\n• Municipal dashboard\n\nCould you be more specific about what you need help with?", raw),
		Buttons: []domain.Button{btnReportGarbage, btnHelp, btnMunicipalInfo},
	}, nil
}

// lower folds s for keyword matching. A Caser is stateful, so one is built
// per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
