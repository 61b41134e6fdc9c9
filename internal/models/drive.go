package models

import (
	"encoding/json"
	"time"
)

// PlaceholderField is the default for drive text fields that extraction has
// not filled in yet. The safe-override merge treats it as "no value".
const PlaceholderField = "Not Provided"

// Drive status values.
const (
	DriveUpcoming = "upcoming"
	DriveOngoing  = "ongoing"
	DriveFinished = "finished"
)

// Registration status values.
const (
	Registered    = "registered"
	NotRegistered = "not_registered"
)

// Parse status values. ParseFailed is a valid stored value but nothing in
// the ingestion flow writes it; the retry sweeper leaves such drives alone.
const (
	ParsePending = "pending"
	ParseParsed  = "parsed"
	ParseFailed  = "failed"
)

// Drive is one recruitment process at one company.
type Drive struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyName        string    `gorm:"size:255" json:"company_name"`
	Role               string    `gorm:"size:255" json:"role"`
	Location           string    `gorm:"size:255" json:"location"`
	CTCStipend         string    `gorm:"column:ctc_stipend;size:255" json:"ctc_stipend"`
	SkillsNotes        string    `gorm:"type:text" json:"skills_notes"`
	Status             string    `gorm:"size:16;default:upcoming;index" json:"status"`
	RegistrationStatus string    `gorm:"size:16;default:not_registered" json:"registration_status"`
	Selected           bool      `json:"selected"`
	RawMessages        string    `gorm:"type:text" json:"-"`
	ParseStatus        string    `gorm:"size:16;default:pending" json:"parse_status"`
	QueuedForRetry     bool      `gorm:"index" json:"queued_for_retry"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Rounds []Round `gorm:"foreignKey:DriveID" json:"rounds,omitempty"`
}

// Messages returns the drive's raw message history, oldest first. A
// corrupted raw_messages blob degrades to an empty history rather than an
// error; callers that care use DecodeMessages to detect the corruption.
func (d *Drive) Messages() []string {
	msgs, _ := DecodeMessages(d.RawMessages)
	return msgs
}

// SetMessages replaces the stored message history.
func (d *Drive) SetMessages(msgs []string) {
	data, err := json.Marshal(msgs)
	if err != nil {
		// []string cannot fail to marshal; keep the column untouched if it
		// somehow does.
		return
	}
	d.RawMessages = string(data)
}

// DecodeMessages decodes a raw_messages column value. ok is false when the
// stored blob was non-empty but did not parse as a JSON string array.
func DecodeMessages(raw string) (msgs []string, ok bool) {
	if raw == "" {
		return nil, true
	}
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, false
	}
	return msgs, true
}
