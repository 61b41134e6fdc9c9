package models

// RoundDateSentinel marks a round whose date is not known yet.
const RoundDateSentinel = "DD-MM-YYYY HH:MM"

// DefaultRoundName is used when a round is saved without a name.
const DefaultRoundName = "Unnamed Round"

// Round status values.
const (
	RoundUpcoming = "upcoming"
	RoundFinished = "finished"
)

// Round result values.
const (
	ResultNotConducted = "not_conducted"
	ResultShortlisted  = "shortlisted"
	ResultRejected     = "rejected"
)

// Round is one stage (OA, interview, HR, ...) of a drive's process.
// RoundNumber defines display order; the reconciler keeps the numbers of a
// drive's rounds contiguous 1..N after user edits.
type Round struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DriveID     uint   `gorm:"not null;index" json:"drive_id"`
	RoundNumber int    `json:"round_number"`
	RoundName   string `gorm:"size:128" json:"round_name"`
	RoundDate   string `gorm:"size:64" json:"round_date"`
	Status      string `gorm:"size:16;default:upcoming" json:"status"`
	Result      string `gorm:"size:16;default:not_conducted" json:"result"`
}
