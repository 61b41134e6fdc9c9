// Package csvio reads and writes the tracker's CSV backup format. Drive
// and round rows share one header; a "type" discriminator column tells
// them apart and round rows follow the drive they belong to.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

const (
	rowDrive = "drive"
	rowRound = "round"

	timeLayout = "02-01-2006 15:04:05"
)

var header = []string{
	"type", "drive_id", "company_name", "role", "location", "ctc_stipend",
	"status", "registration_status", "selected", "skills_notes",
	"raw_messages", "parse_status", "queued_for_retry",
	"created_at", "updated_at",
	"round_number", "round_name", "round_date", "result",
}

// FileName returns the conventional export file name, timestamped to the
// second so repeated exports never collide.
func FileName() string {
	return "Placement_Tracker_DB_" + time.Now().Format("02-01-2006_15-04-05") + ".csv"
}

// Export writes every drive and its rounds to w. Rounds are interleaved
// directly after their drive so the file replays in order.
func Export(db *gorm.DB, w io.Writer) error {
	drives, err := store.ListDrives(db)
	if err != nil {
		return fmt.Errorf("csvio: export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csvio: export: %w", err)
	}
	for _, d := range drives {
		if err := cw.Write(driveRow(&d)); err != nil {
			return fmt.Errorf("csvio: export: %w", err)
		}
		rounds, err := store.ListRounds(db, d.ID)
		if err != nil {
			return fmt.Errorf("csvio: export: %w", err)
		}
		for _, r := range rounds {
			if err := cw.Write(roundRow(d.ID, &r)); err != nil {
				return fmt.Errorf("csvio: export: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvio: export: %w", err)
	}
	return nil
}

// Import replays a previously exported file into the store. Rows keep
// their field values but receive fresh IDs; round rows attach to the most
// recent drive row above them. It returns the number of drives and rounds
// created.
func Import(db *gorm.DB, r io.Reader) (drives, rounds int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return 0, 0, fmt.Errorf("csvio: import: empty file")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("csvio: import: %w", err)
	}
	if first[0] != "type" {
		return 0, 0, fmt.Errorf("csvio: import: missing header row")
	}

	var currentDrive uint
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return drives, rounds, fmt.Errorf("csvio: import: %w", err)
		}
		line++

		switch rec[0] {
		case rowDrive:
			d := driveFromRow(rec)
			id, err := store.CreateDrive(db, d)
			if err != nil {
				return drives, rounds, fmt.Errorf("csvio: import line %d: %w", line, err)
			}
			currentDrive = id
			drives++
		case rowRound:
			if currentDrive == 0 {
				return drives, rounds, fmt.Errorf("csvio: import line %d: round row before any drive row", line)
			}
			rd := roundFromRow(currentDrive, rec)
			if _, err := store.CreateRound(db, rd); err != nil {
				return drives, rounds, fmt.Errorf("csvio: import line %d: %w", line, err)
			}
			rounds++
		default:
			return drives, rounds, fmt.Errorf("csvio: import line %d: unknown row type %q", line, rec[0])
		}
	}
	return drives, rounds, nil
}

func driveRow(d *models.Drive) []string {
	return []string{
		rowDrive,
		strconv.FormatUint(uint64(d.ID), 10),
		d.CompanyName, d.Role, d.Location, d.CTCStipend,
		d.Status, d.RegistrationStatus, strconv.FormatBool(d.Selected),
		d.SkillsNotes, d.RawMessages, d.ParseStatus,
		strconv.FormatBool(d.QueuedForRetry),
		d.CreatedAt.Format(timeLayout), d.UpdatedAt.Format(timeLayout),
		"", "", "", "",
	}
}

func roundRow(driveID uint, r *models.Round) []string {
	return []string{
		rowRound,
		strconv.FormatUint(uint64(driveID), 10),
		"", "", "", "", r.Status, "", "", "", "", "", "", "", "",
		strconv.Itoa(r.RoundNumber), r.RoundName, r.RoundDate, r.Result,
	}
}

func driveFromRow(rec []string) *models.Drive {
	selected, _ := strconv.ParseBool(rec[8])
	queued, _ := strconv.ParseBool(rec[12])
	return &models.Drive{
		CompanyName:        rec[2],
		Role:               rec[3],
		Location:           rec[4],
		CTCStipend:         rec[5],
		Status:             rec[6],
		RegistrationStatus: rec[7],
		Selected:           selected,
		SkillsNotes:        rec[9],
		RawMessages:        rec[10],
		ParseStatus:        rec[11],
		QueuedForRetry:     queued,
	}
}

func roundFromRow(driveID uint, rec []string) *models.Round {
	num, _ := strconv.Atoi(rec[15])
	return &models.Round{
		DriveID:     driveID,
		RoundNumber: num,
		RoundName:   rec[16],
		RoundDate:   rec[17],
		Status:      rec[6],
		Result:      rec[18],
	}
}
