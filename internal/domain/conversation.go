package domain

import "time"

// Sender identifies who authored a conversation turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Button is an interactive choice attached to an assistant turn. Action is
// a token understood by the assistant's action dispatcher.
type Button struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// CardItem is one labelled line of a card.
type CardItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card types.
const (
	CardMunicipalityInfo = "municipality-info"
	CardReportStatus     = "report-status"
)

// Card is a structured payload rendered by the client. Which fields are set
// depends on Type.
type Card struct {
	Type string `json:"type"`

	// municipality-info
	Title       string       `json:"title,omitempty"`
	Content     []CardItem   `json:"content,omitempty"`
	Departments []Department `json:"departments,omitempty"`

	// report-status
	ReportID      int64        `json:"id,omitempty"`
	Status        ReportStatus `json:"status,omitempty"`
	GarbageType   string       `json:"garbageType,omitempty"`
	Severity      Severity     `json:"severity,omitempty"`
	EstimatedTime string       `json:"estimatedTime,omitempty"`
	Timestamp     *time.Time   `json:"timestamp,omitempty"`
}

// ConversationTurn is one appended entry of an assistant transcript.
type ConversationTurn struct {
	ID          string    `json:"id"                    gorm:"type:char(36);primaryKey"`
	SessionID   string    `json:"session_id"            gorm:"type:varchar(96);not null;index:idx_session_turns,priority:1"`
	Sender      Sender    `json:"sender"                gorm:"type:varchar(16);not null;check:sender IN ('user','assistant')"`
	Text        string    `json:"text"                  gorm:"type:text"`
	Buttons     []Button  `json:"buttons,omitempty"     gorm:"serializer:json"`
	Card        *Card     `json:"card,omitempty"        gorm:"serializer:json"`
	Suggestions []string  `json:"suggestions,omitempty" gorm:"serializer:json"`
	Directive   string    `json:"directive,omitempty"   gorm:"type:varchar(64)"`
	CreatedAt   time.Time `json:"created_at"            gorm:"index:idx_session_turns,priority:2"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for ConversationTurn.
func (ConversationTurn) TableName() string { return "conversation_turns" }
