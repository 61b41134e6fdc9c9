package ingest

import (
	"errors"
	"strings"

	"github.com/driveline/placetrack/internal/gemini"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

// mergeRounds synchronizes a drive's rounds with the extraction result.
// Proposed rounds are matched against existing ones by normalized name;
// a match updates in place with the safe-override rule, otherwise a new
// round is inserted. Extracted round numbers are trusted as-is; no
// renumbering happens on this path.
//
// Each existing round matches at most one proposed round per merge. When
// two proposed rounds normalize to the same name, the first one claims
// the existing round and the second is inserted fresh.
func mergeRounds(db *gorm.DB, driveID uint, existing []models.Round, proposed []gemini.RoundResult) error {
	maxNum := 0
	for _, r := range existing {
		if r.RoundNumber > maxNum {
			maxNum = r.RoundNumber
		}
	}

	claimed := make(map[uint]bool)
	for _, p := range proposed {
		name := strings.TrimSpace(p.RoundName)
		norm := normalizeName(name)

		var match *models.Round
		if norm != "" {
			for i := range existing {
				if !claimed[existing[i].ID] && normalizeName(existing[i].RoundName) == norm {
					match = &existing[i]
					break
				}
			}
		}

		if match != nil {
			claimed[match.ID] = true
			fields := map[string]interface{}{}
			if p.RoundNumber > 0 && p.RoundNumber != match.RoundNumber {
				fields["round_number"] = p.RoundNumber
			}
			if date := strings.TrimSpace(p.RoundDate); date != "" && date != models.RoundDateSentinel {
				fields["round_date"] = date
			}
			if p.Status != "" && p.Status != match.Status {
				fields["status"] = p.Status
			}
			if err := store.UpdateRound(db, match.ID, fields); err != nil {
				return err
			}
			if p.RoundNumber > maxNum {
				maxNum = p.RoundNumber
			}
			continue
		}

		num := p.RoundNumber
		if num <= 0 {
			num = maxNum + 1
		}
		if num > maxNum {
			maxNum = num
		}
		r := models.Round{
			DriveID:     driveID,
			RoundNumber: num,
			RoundName:   name,
			RoundDate:   strings.TrimSpace(p.RoundDate),
			Status:      p.Status,
		}
		if _, err := store.CreateRound(db, &r); err != nil {
			return err
		}
	}
	return nil
}

// AddRound inserts a user-created round and renumbers the drive's rounds
// so the typed round number lands at the slot it names.
func AddRound(db *gorm.DB, driveID uint, r *models.Round) (uint, error) {
	if _, err := store.GetDrive(db, driveID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, &StorageError{Op: "load drive", Err: err}
	}

	r.DriveID = driveID
	if r.RoundNumber <= 0 {
		rounds, err := store.ListRounds(db, driveID)
		if err != nil {
			return 0, &StorageError{Op: "load rounds", Err: err}
		}
		r.RoundNumber = len(rounds) + 1
	}

	id, err := store.CreateRound(db, r)
	if err != nil {
		return 0, &StorageError{Op: "create round", Err: err}
	}
	if err := NormalizeAndPrioritize(db, driveID, id); err != nil {
		return 0, err
	}
	return id, nil
}

// EditRound applies a user edit to a round and renumbers its drive's
// rounds around the (possibly changed) round number.
func EditRound(db *gorm.DB, roundID uint, fields map[string]interface{}) error {
	r, err := store.GetRound(db, roundID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "load round", Err: err}
	}
	if err := store.UpdateRound(db, roundID, fields); err != nil {
		return &StorageError{Op: "update round", Err: err}
	}
	return NormalizeAndPrioritize(db, r.DriveID, roundID)
}

// RemoveRound deletes a round and closes the numbering gap it leaves.
func RemoveRound(db *gorm.DB, roundID uint) error {
	r, err := store.GetRound(db, roundID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "load round", Err: err}
	}
	if err := store.DeleteRound(db, roundID); err != nil {
		return &StorageError{Op: "delete round", Err: err}
	}
	return NormalizeAndPrioritize(db, r.DriveID, 0)
}

// NormalizeAndPrioritize restores the contiguous 1..N numbering of a
// drive's rounds. Rounds are sorted by round_number (insertion order
// breaking ties); when changedID names a just-added or just-edited round,
// it is pulled out and reinserted at the index its typed number points
// at, so a user can push a round between two existing ones by giving it
// a colliding number. Every round whose number changed is persisted.
func NormalizeAndPrioritize(db *gorm.DB, driveID uint, changedID uint) error {
	rounds, err := store.ListRounds(db, driveID)
	if err != nil {
		return &StorageError{Op: "load rounds", Err: err}
	}

	if changedID != 0 {
		idx := -1
		for i := range rounds {
			if rounds[i].ID == changedID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			changed := rounds[idx]
			rest := append(rounds[:idx:idx], rounds[idx+1:]...)
			pos := changed.RoundNumber - 1
			if pos < 0 {
				pos = 0
			}
			if pos > len(rest) {
				pos = len(rest)
			}
			rounds = append(rest[:pos:pos], append([]models.Round{changed}, rest[pos:]...)...)
		}
	}

	for i := range rounds {
		want := i + 1
		if rounds[i].RoundNumber == want {
			continue
		}
		err := store.UpdateRound(db, rounds[i].ID, map[string]interface{}{
			"round_number": want,
		})
		if err != nil {
			return &StorageError{Op: "renumber round", Err: err}
		}
	}
	return nil
}
