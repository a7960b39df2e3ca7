package domain

import "time"

// The municipal record document is persisted as one JSON blob, so these
// types carry camelCase tags matching the stored document shape.

// RecordNote is one entry in a municipal record's append-only note log.
type RecordNote struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
}

// MunicipalRecord is the office-facing view of a Report. It is created once
// per report and tracks assignment, priority, and cleanup notes. Photo bytes
// stay with the Report row.
type MunicipalRecord struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"userId"`
	UserName      string       `json:"userName"`
	UserEmail     string       `json:"userEmail"`
	GarbageType   GarbageType  `json:"garbageType"`
	Description   string       `json:"description"`
	Severity      Severity     `json:"severity"`
	Location      Location     `json:"location"`
	Timestamp     time.Time    `json:"timestamp"`
	Status        ReportStatus `json:"status"`
	AssignedTo    *int64       `json:"assignedTo"`
	EstimatedTime string       `json:"estimatedTime"`
	Priority      int          `json:"priority"`
	Notes         []RecordNote `json:"notes"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

// StatusEntry is the authoritative status of one report, keyed by report id
// in MunicipalData.StatusHistory.
type StatusEntry struct {
	Status      ReportStatus `json:"status"`
	SubmittedAt *time.Time   `json:"submittedAt,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Department is a municipal department contact.
type Department struct {
	Name  string `json:"name"  yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
}

// Worker is a field worker that can be assigned to a record.
type Worker struct {
	ID         int64  `json:"id"         yaml:"id"`
	Name       string `json:"name"       yaml:"name"`
	Department string `json:"department" yaml:"department"`
	Status     string `json:"status"     yaml:"status"`
}

// OrgInfo is the static organisational directory of the municipal office.
type OrgInfo struct {
	Name        string       `json:"name"        yaml:"name"`
	Address     string       `json:"address"     yaml:"address"`
	Phone       string       `json:"phone"       yaml:"phone"`
	Email       string       `json:"email"       yaml:"email"`
	Hours       string       `json:"hours"       yaml:"hours"`
	Departments []Department `json:"departments" yaml:"departments"`
	Workers     []Worker     `json:"workers"     yaml:"workers"`
}

// MunicipalData is the full persisted municipal document.
type MunicipalData struct {
	Records       []MunicipalRecord      `json:"records"`
	OrgInfo       OrgInfo                `json:"orgInfo"`
	StatusHistory map[string]StatusEntry `json:"statusHistory"`
	LastUpdate    time.Time              `json:"lastUpdate"`
}
