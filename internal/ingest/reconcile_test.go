package ingest

import (
	"errors"
	"testing"

	"github.com/driveline/placetrack/internal/gemini"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

func seedDrive(t *testing.T, gdb *gorm.DB) uint {
	t.Helper()
	id, err := store.CreateDrive(gdb, &models.Drive{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("seed drive: %v", err)
	}
	return id
}

func seedRound(t *testing.T, gdb *gorm.DB, driveID uint, num int, name string) uint {
	t.Helper()
	id, err := store.CreateRound(gdb, &models.Round{
		DriveID:     driveID,
		RoundNumber: num,
		RoundName:   name,
	})
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return id
}

func roundNames(rounds []models.Round) []string {
	names := make([]string, len(rounds))
	for i, r := range rounds {
		names[i] = r.RoundName
	}
	return names
}

func TestMergeRoundsMatchesCaseInsensitive(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")

	existing, _ := store.ListRounds(gdb, driveID)
	proposed := []gemini.RoundResult{
		{RoundName: "  online ASSESSMENT ", RoundDate: "10-09-2026 14:00", Status: models.RoundFinished},
	}
	if err := mergeRounds(gdb, driveID, existing, proposed); err != nil {
		t.Fatalf("mergeRounds: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 1 {
		t.Fatalf("want 1 round, got %d", len(rounds))
	}
	if rounds[0].RoundName != "Online Assessment" {
		t.Errorf("stored name should be untouched, got %q", rounds[0].RoundName)
	}
	if rounds[0].RoundDate != "10-09-2026 14:00" || rounds[0].Status != models.RoundFinished {
		t.Errorf("update not applied: %+v", rounds[0])
	}
}

func TestMergeRoundsSentinelDateRetained(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	id := seedRound(t, gdb, driveID, 1, "Interview")
	if err := store.UpdateRound(gdb, id, map[string]interface{}{
		"round_date": "10-09-2026 14:00",
	}); err != nil {
		t.Fatalf("UpdateRound: %v", err)
	}

	existing, _ := store.ListRounds(gdb, driveID)
	proposed := []gemini.RoundResult{
		{RoundName: "Interview", RoundDate: models.RoundDateSentinel},
	}
	if err := mergeRounds(gdb, driveID, existing, proposed); err != nil {
		t.Fatalf("mergeRounds: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if rounds[0].RoundDate != "10-09-2026 14:00" {
		t.Errorf("sentinel date overwrote real date: %q", rounds[0].RoundDate)
	}
}

func TestMergeRoundsInsertsUnmatched(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")

	existing, _ := store.ListRounds(gdb, driveID)
	proposed := []gemini.RoundResult{
		{RoundName: "HR Interview"}, // no number given
	}
	if err := mergeRounds(gdb, driveID, existing, proposed); err != nil {
		t.Fatalf("mergeRounds: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 2 {
		t.Fatalf("want 2 rounds, got %d", len(rounds))
	}
	if rounds[1].RoundName != "HR Interview" || rounds[1].RoundNumber != 2 {
		t.Errorf("inserted round = %+v", rounds[1])
	}
}

func TestMergeRoundsDuplicateProposedNames(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Interview")

	existing, _ := store.ListRounds(gdb, driveID)
	proposed := []gemini.RoundResult{
		{RoundName: "Interview", Status: models.RoundFinished},
		{RoundName: "interview"},
	}
	if err := mergeRounds(gdb, driveID, existing, proposed); err != nil {
		t.Fatalf("mergeRounds: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 2 {
		t.Fatalf("second duplicate should insert, got %d rounds", len(rounds))
	}
	if rounds[0].Status != models.RoundFinished {
		t.Errorf("first duplicate should claim the existing round: %+v", rounds[0])
	}
}

func TestMergeRoundsIdempotent(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	proposed := []gemini.RoundResult{
		{RoundNumber: 1, RoundName: "Online Assessment", RoundDate: "05-09-2026 10:00"},
		{RoundNumber: 2, RoundName: "Interview"},
	}

	for i := 0; i < 2; i++ {
		existing, _ := store.ListRounds(gdb, driveID)
		if err := mergeRounds(gdb, driveID, existing, proposed); err != nil {
			t.Fatalf("mergeRounds pass %d: %v", i+1, err)
		}
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 2 {
		t.Fatalf("replaying the same result must not duplicate rounds, got %d", len(rounds))
	}
	if rounds[0].RoundDate != "05-09-2026 10:00" {
		t.Errorf("round date = %q", rounds[0].RoundDate)
	}
}

func TestAddRoundInsertsAtTypedNumber(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")
	seedRound(t, gdb, driveID, 2, "Technical Interview")
	seedRound(t, gdb, driveID, 3, "HR Interview")

	_, err := AddRound(gdb, driveID, &models.Round{RoundNumber: 2, RoundName: "Group Discussion"})
	if err != nil {
		t.Fatalf("AddRound: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	want := []string{"Online Assessment", "Group Discussion", "Technical Interview", "HR Interview"}
	got := roundNames(rounds)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i, r := range rounds {
		if r.RoundNumber != i+1 {
			t.Errorf("round %q number = %d, want %d", r.RoundName, r.RoundNumber, i+1)
		}
	}
}

func TestAddRoundDefaultsToEnd(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")

	_, err := AddRound(gdb, driveID, &models.Round{RoundName: "Interview"})
	if err != nil {
		t.Fatalf("AddRound: %v", err)
	}
	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 2 || rounds[1].RoundName != "Interview" || rounds[1].RoundNumber != 2 {
		t.Errorf("rounds = %+v", rounds)
	}
}

func TestAddRoundDriveNotFound(t *testing.T) {
	gdb := testDB(t)
	_, err := AddRound(gdb, 99, &models.Round{RoundName: "Interview"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestEditRoundMovesToFront(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")
	seedRound(t, gdb, driveID, 2, "Technical Interview")
	hrID := seedRound(t, gdb, driveID, 3, "HR Interview")

	err := EditRound(gdb, hrID, map[string]interface{}{"round_number": 1})
	if err != nil {
		t.Fatalf("EditRound: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	want := []string{"HR Interview", "Online Assessment", "Technical Interview"}
	got := roundNames(rounds)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i, r := range rounds {
		if r.RoundNumber != i+1 {
			t.Errorf("round %q number = %d, want %d", r.RoundName, r.RoundNumber, i+1)
		}
	}
}

func TestRemoveRoundClosesGap(t *testing.T) {
	gdb := testDB(t)
	driveID := seedDrive(t, gdb)
	seedRound(t, gdb, driveID, 1, "Online Assessment")
	midID := seedRound(t, gdb, driveID, 2, "Group Discussion")
	seedRound(t, gdb, driveID, 3, "HR Interview")

	if err := RemoveRound(gdb, midID); err != nil {
		t.Fatalf("RemoveRound: %v", err)
	}

	rounds, _ := store.ListRounds(gdb, driveID)
	if len(rounds) != 2 {
		t.Fatalf("want 2 rounds, got %d", len(rounds))
	}
	if rounds[0].RoundNumber != 1 || rounds[1].RoundNumber != 2 {
		t.Errorf("numbers = %d, %d", rounds[0].RoundNumber, rounds[1].RoundNumber)
	}
	if rounds[1].RoundName != "HR Interview" {
		t.Errorf("surviving order wrong: %v", roundNames(rounds))
	}
}

func TestRemoveRoundNotFound(t *testing.T) {
	gdb := testDB(t)
	if err := RemoveRound(gdb, 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
