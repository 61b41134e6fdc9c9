// Package store implements drive and round persistence over the local
// database.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/driveline/placetrack/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested drive or round does not exist.
var ErrNotFound = errors.New("store: not found")

// CreateDrive inserts a new drive and returns its assigned id. Blank text
// fields are filled with the placeholder so the UI never renders empty
// cells.
func CreateDrive(db *gorm.DB, d *models.Drive) (uint, error) {
	applyDriveDefaults(d)
	if err := db.Create(d).Error; err != nil {
		return 0, fmt.Errorf("store: create drive: %w", err)
	}
	return d.ID, nil
}

// GetDrive loads one drive by id.
func GetDrive(db *gorm.DB, id uint) (*models.Drive, error) {
	var d models.Drive
	err := db.First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get drive %d: %w", id, err)
	}
	return &d, nil
}

// UpdateDrive applies a partial field update to one drive. updated_at is
// always bumped so every mutation is visible in the record.
func UpdateDrive(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	result := db.Model(&models.Drive{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("store: update drive %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDrive removes a drive and all of its rounds.
func DeleteDrive(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Drive{}, id)
	if result.Error != nil {
		return fmt.Errorf("store: delete drive %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := db.Where("drive_id = ?", id).Delete(&models.Round{}).Error; err != nil {
		return fmt.Errorf("store: delete rounds of drive %d: %w", id, err)
	}
	return nil
}

// ListDrives returns all drives, newest first.
func ListDrives(db *gorm.DB) ([]models.Drive, error) {
	var drives []models.Drive
	if err := db.Order("created_at DESC").Find(&drives).Error; err != nil {
		return nil, fmt.Errorf("store: list drives: %w", err)
	}
	return drives, nil
}

// QueuedDrives returns drives flagged for an extraction retry, oldest
// first so the sweeper works through the backlog in arrival order.
func QueuedDrives(db *gorm.DB) ([]models.Drive, error) {
	var drives []models.Drive
	err := db.Where("queued_for_retry = ?", true).
		Order("created_at ASC").Find(&drives).Error
	if err != nil {
		return nil, fmt.Errorf("store: queued drives: %w", err)
	}
	return drives, nil
}

// CreateRound inserts a round for a drive and returns its assigned id.
func CreateRound(db *gorm.DB, r *models.Round) (uint, error) {
	if r.DriveID == 0 {
		return 0, fmt.Errorf("store: create round: drive id is required")
	}
	applyRoundDefaults(r)
	if err := db.Create(r).Error; err != nil {
		return 0, fmt.Errorf("store: create round: %w", err)
	}
	return r.ID, nil
}

// GetRound loads one round by id.
func GetRound(db *gorm.DB, id uint) (*models.Round, error) {
	var r models.Round
	err := db.First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get round %d: %w", id, err)
	}
	return &r, nil
}

// UpdateRound applies a partial field update to one round.
func UpdateRound(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Round{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("store: update round %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRound removes one round.
func DeleteRound(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Round{}, id)
	if result.Error != nil {
		return fmt.Errorf("store: delete round %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRounds returns a drive's rounds ordered by round number, insertion
// order breaking ties.
func ListRounds(db *gorm.DB, driveID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := db.Where("drive_id = ?", driveID).
		Order("round_number ASC, id ASC").Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("store: list rounds of drive %d: %w", driveID, err)
	}
	return rounds, nil
}

func applyDriveDefaults(d *models.Drive) {
	if d.CompanyName == "" {
		d.CompanyName = models.PlaceholderField
	}
	if d.Role == "" {
		d.Role = models.PlaceholderField
	}
	if d.Location == "" {
		d.Location = models.PlaceholderField
	}
	if d.CTCStipend == "" {
		d.CTCStipend = models.PlaceholderField
	}
	if d.SkillsNotes == "" {
		d.SkillsNotes = models.PlaceholderField
	}
	if d.Status == "" {
		d.Status = models.DriveUpcoming
	}
	if d.RegistrationStatus == "" {
		d.RegistrationStatus = models.NotRegistered
	}
	if d.ParseStatus == "" {
		d.ParseStatus = models.ParsePending
	}
	if d.RawMessages == "" {
		d.SetMessages([]string{})
	}
}

func applyRoundDefaults(r *models.Round) {
	if r.RoundNumber <= 0 {
		r.RoundNumber = 1
	}
	if r.RoundName == "" {
		r.RoundName = models.DefaultRoundName
	}
	if r.RoundDate == "" {
		r.RoundDate = models.RoundDateSentinel
	}
	if r.Status == "" {
		r.Status = models.RoundUpcoming
	}
	if r.Result == "" {
		r.Result = models.ResultNotConducted
	}
}
