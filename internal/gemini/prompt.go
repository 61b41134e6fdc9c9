package gemini

import (
	"fmt"
	"strings"

	"github.com/driveline/placetrack/internal/models"
)

// newDrivePrompt asks for a full extraction over the whole message
// history of a drive that has never been parsed.
func newDrivePrompt(messages []string) string {
	var sb strings.Builder
	sb.WriteString(`You are an expert assistant that extracts structured JSON from campus placement messages.
Remove all formatting and bullets. Extract:
- company_name
- role
- ctc_stipend
- location
- skills_notes
- rounds (array of: round_number, round_name, optional round_date, status "upcoming" or "finished")
Ignore URLs, registration deadlines and contact info.
Omit any field the messages do not mention.

Messages:
`)
	sb.WriteString(strings.Join(messages, "\n"))
	sb.WriteString("\n\nReturn only valid JSON, no markdown.")
	return sb.String()
}

// updateDrivePrompt sends the drive's current structured state plus only
// the newest message, keeping the extraction context bounded.
func updateDrivePrompt(drive *models.Drive, rounds []models.Round, newest string) string {
	var sb strings.Builder
	sb.WriteString(`You are an expert assistant that keeps a structured campus placement record up to date.
Given the current record and one new message, return the full updated record as JSON with:
- company_name, role, ctc_stipend, location, skills_notes
- rounds (array of: round_number, round_name, optional round_date, status "upcoming" or "finished")
Keep existing values unless the new message changes them. Reuse existing
round names and numbers when the message refers to a known round. Omit any
field the record and message leave unknown.

Current record:
`)
	fmt.Fprintf(&sb, "company_name: %s\n", drive.CompanyName)
	fmt.Fprintf(&sb, "role: %s\n", drive.Role)
	fmt.Fprintf(&sb, "ctc_stipend: %s\n", drive.CTCStipend)
	fmt.Fprintf(&sb, "location: %s\n", drive.Location)
	fmt.Fprintf(&sb, "skills_notes: %s\n", drive.SkillsNotes)

	if len(rounds) > 0 {
		sb.WriteString("\nCurrent rounds:\n")
		for _, r := range rounds {
			fmt.Fprintf(&sb, "%d. %s (date: %s, status: %s)\n", r.RoundNumber, r.RoundName, r.RoundDate, r.Status)
		}
	}

	sb.WriteString("\nNew message:\n")
	sb.WriteString(newest)
	sb.WriteString("\n\nReturn only valid JSON, no markdown.")
	return sb.String()
}
