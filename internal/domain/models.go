// Package domain defines the persistence models for citizens, garbage
// reports, the municipal record document, and assistant conversations.
// Types are mapped with GORM and shared across the repository, service,
// and HTTP layers.
package domain

import (
	"time"
)

// Severity is the ordinal classification of a reported waste site.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ReportStatus is the cleanup state of a report. The only legal transition
// is pending → cleaned.
type ReportStatus string

const (
	StatusPending ReportStatus = "pending"
	StatusCleaned ReportStatus = "cleaned"
)

// GarbageType classifies the waste found at a site.
type GarbageType string

const (
	GarbagePlastic      GarbageType = "plastic"
	GarbageOrganic      GarbageType = "organic"
	GarbagePaper        GarbageType = "paper"
	GarbageGlass        GarbageType = "glass"
	GarbageMetal        GarbageType = "metal"
	GarbageElectronic   GarbageType = "electronic"
	GarbageHazardous    GarbageType = "hazardous"
	GarbageConstruction GarbageType = "construction"
	GarbageMixed        GarbageType = "mixed"
	GarbageOther        GarbageType = "other"
)

var garbageTypes = map[GarbageType]struct{}{
	GarbagePlastic: {}, GarbageOrganic: {}, GarbagePaper: {}, GarbageGlass: {}, GarbageMetal: {},
	GarbageElectronic: {}, GarbageHazardous: {}, GarbageConstruction: {}, GarbageMixed: {}, GarbageOther: {},
}

// Valid reports whether g is a recognised garbage type.
func (g GarbageType) Valid() bool {
	_, ok := garbageTypes[g]
	return ok
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// User is a registered citizen. Points and ReportCount are only ever
// incremented by report submission.
//
// Fields:
//   - ID: millisecond-derived identifier, unique and stable.
//   - Email: unique, stored lower-cased.
//   - Password: stored as given; never serialised.
//   - JoinedAt: registration time; drives the weekly leaderboard window.
type User struct {
	ID          int64     `json:"id"           gorm:"primaryKey;autoIncrement:false"`
	Name        string    `json:"name"         gorm:"type:varchar(255);not null"`
	Email       string    `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password    string    `json:"-"            gorm:"type:varchar(255);not null"`
	Phone       string    `json:"phone"        gorm:"type:varchar(64);not null"`
	Points      int       `json:"points"       gorm:"not null;default:0;check:points >= 0"`
	ReportCount int       `json:"report_count" gorm:"not null;default:0;check:report_count >= 0"`
	JoinedAt    time.Time `json:"joined_at"    gorm:"not null;index:idx_users_joined"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Report is a user-submitted record of a waste site. Everything except
// Status is immutable after creation.
type Report struct {
	ID            int64        `json:"id"             gorm:"primaryKey;autoIncrement:false"`
	UserID        int64        `json:"user_id"        gorm:"not null;index:idx_user_reports,priority:1"`
	GarbageType   GarbageType  `json:"garbage_type"   gorm:"type:varchar(32);not null"`
	Description   string       `json:"description"    gorm:"type:text"`
	Severity      Severity     `json:"severity"       gorm:"type:varchar(16);not null;check:severity IN ('low','medium','high','critical')"`
	Location      Location     `json:"location"       gorm:"embedded;embeddedPrefix:location_"`
	Photo         []byte       `json:"-"              gorm:"type:blob;not null"`
	PhotoType     string       `json:"photo_type"     gorm:"type:varchar(64);not null"`
	Status        ReportStatus `json:"status"         gorm:"type:varchar(16);not null;index;check:status IN ('pending','cleaned')"`
	PointsAwarded int          `json:"points_awarded" gorm:"not null"`
	CreatedAt     time.Time    `json:"created_at"     gorm:"index:idx_user_reports,priority:2"`
	UpdatedAt     time.Time    `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }
