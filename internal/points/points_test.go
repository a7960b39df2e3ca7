package points

import (
	"testing"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

func TestFixedTable(t *testing.T) {
	cases := []struct {
		sev      domain.Severity
		points   int
		eta      string
		priority int
	}{
		{domain.SeverityLow, 5, "1-2 hours", 1},
		{domain.SeverityMedium, 10, "2-4 hours", 2},
		{domain.SeverityHigh, 15, "4-6 hours", 3},
		{domain.SeverityCritical, 25, "Immediate (within 1 hour)", 4},
	}
	for _, tc := range cases {
		t.Run(string(tc.sev), func(t *testing.T) {
			if got := PointsFor(tc.sev); got != tc.points {
				t.Fatalf("PointsFor = %d; want %d", got, tc.points)
			}
			if got := EstimatedTimeFor(tc.sev); got != tc.eta {
				t.Fatalf("EstimatedTimeFor = %q; want %q", got, tc.eta)
			}
			if got := PriorityFor(tc.sev); got != tc.priority {
				t.Fatalf("PriorityFor = %d; want %d", got, tc.priority)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	for _, s := range []domain.Severity{"", "urgent", "HIGH"} {
		if PointsFor(s) != 5 || EstimatedTimeFor(s) != "2-4 hours" || PriorityFor(s) != 2 {
			t.Fatalf("severity %q did not fall back to defaults", s)
		}
	}
}

func TestEverySeverityHasCompleteTerms(t *testing.T) {
	for _, s := range Severities() {
		if !s.Valid() {
			t.Fatalf("Severities() returned invalid %q", s)
		}
		terms, ok := table[s]
		if !ok {
			t.Fatalf("severity %q missing from table", s)
		}
		if terms.Points <= 0 || terms.EstimatedTime == "" || terms.Priority < 1 || terms.Priority > 4 {
			t.Fatalf("severity %q has incomplete terms: %+v", s, terms)
		}
	}
	if len(table) != len(Severities()) {
		t.Fatalf("table has %d entries, domain has %d", len(table), len(Severities()))
	}
}
