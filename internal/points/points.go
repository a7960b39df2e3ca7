// Package points holds the fixed severity policy: how many points a report
// earns, how quickly the municipal office promises to respond, and the
// work-queue priority. All three lookups read one table so they cannot
// drift apart.
package points

import "github.com/tbourn/cleancity-backend/internal/domain"

// Terms is the policy attached to one severity.
type Terms struct {
	Points        int
	EstimatedTime string
	Priority      int
}

// Default applies to any severity outside the table.
var Default = Terms{Points: 5, EstimatedTime: "2-4 hours", Priority: 2}

var table = map[domain.Severity]Terms{
	domain.SeverityLow:      {Points: 5, EstimatedTime: "1-2 hours", Priority: 1},
	domain.SeverityMedium:   {Points: 10, EstimatedTime: "2-4 hours", Priority: 2},
	domain.SeverityHigh:     {Points: 15, EstimatedTime: "4-6 hours", Priority: 3},
	domain.SeverityCritical: {Points: 25, EstimatedTime: "Immediate (within 1 hour)", Priority: 4},
}

// Lookup returns the terms for s, or Default when s is not recognised.
func Lookup(s domain.Severity) Terms {
	if t, ok := table[s]; ok {
		return t
	}
	return Default
}

// PointsFor returns the reward for a report of severity s.
func PointsFor(s domain.Severity) int { return Lookup(s).Points }

// EstimatedTimeFor returns the response-time label for severity s.
func EstimatedTimeFor(s domain.Severity) string { return Lookup(s).EstimatedTime }

// PriorityFor returns the 1-4 work priority for severity s.
func PriorityFor(s domain.Severity) int { return Lookup(s).Priority }

// Severities lists the known severities in ascending order.
func Severities() []domain.Severity {
	return []domain.Severity{
		domain.SeverityLow,
		domain.SeverityMedium,
		domain.SeverityHigh,
		domain.SeverityCritical,
	}
}
