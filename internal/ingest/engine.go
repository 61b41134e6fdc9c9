// Package ingest turns raw recruitment messages into structured drive
// records: it invokes the extraction client, merges results into the
// local store without destroying user edits, and keeps a durable retry
// flag when extraction is unavailable.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driveline/placetrack/internal/credentials"
	"github.com/driveline/placetrack/internal/gemini"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

// Mode selects how the extraction service is prompted.
type Mode string

const (
	// ModeNew sends the full raw message history of a never-parsed drive.
	ModeNew Mode = "new"
	// ModeUpdate sends the current structured state plus only the newest
	// message.
	ModeUpdate Mode = "update"
)

// Extractor is the extraction client consumed by the engine. It matches
// gemini.Client and is mocked in tests.
type Extractor interface {
	ExtractNew(ctx context.Context, messages []string) (*gemini.Result, error)
	ExtractUpdate(ctx context.Context, drive *models.Drive, rounds []models.Round, newest string) (*gemini.Result, error)
}

// CredentialSource reports whether an API key is configured. The engine
// checks it before every extraction attempt so a missing key surfaces as
// a distinct condition instead of a failed API call.
type CredentialSource interface {
	Get() (string, error)
}

// Engine orchestrates drive creation and message appends. All operations
// run on the caller's goroutine; there is no fire-and-forget ingestion.
type Engine struct {
	DB        *gorm.DB
	Extractor Extractor
	Creds     CredentialSource
	Log       *slog.Logger
}

// CreateOpts holds optional parameters for CreateDrive.
type CreateOpts struct {
	RegistrationStatus string // defaults to "registered"
}

// CreateDrive persists a new drive from its first raw message and then
// attempts extraction. The drive row survives any extraction failure; the
// returned drive is non-nil whenever the row was written, even when the
// error is a classified extraction failure.
func (e *Engine) CreateDrive(ctx context.Context, rawText string, opts CreateOpts) (*models.Drive, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, &ValidationError{Reason: "message text is empty"}
	}

	reg := opts.RegistrationStatus
	switch reg {
	case "":
		reg = models.Registered
	case models.Registered, models.NotRegistered:
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown registration status %q", reg)}
	}

	d := &models.Drive{
		RegistrationStatus: reg,
		Status:             models.DriveUpcoming,
		ParseStatus:        models.ParsePending,
		QueuedForRetry:     true,
	}
	d.SetMessages([]string{rawText})

	id, err := store.CreateDrive(e.DB, d)
	if err != nil {
		return nil, &StorageError{Op: "create drive", Err: err}
	}

	if merr := e.attemptMerge(ctx, id, []string{rawText}, ModeNew); merr != nil {
		return e.reload(id, d), merr
	}
	return store.GetDrive(e.DB, id)
}

// AppendMessage appends a raw message to an existing drive and attempts
// an update-mode extraction. The message is persisted before extraction
// runs, so it survives any failure.
func (e *Engine) AppendMessage(ctx context.Context, driveID uint, rawText string) (*models.Drive, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, &ValidationError{Reason: "message text is empty"}
	}

	d, err := store.GetDrive(e.DB, driveID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "load drive", Err: err}
	}

	msgs, ok := models.DecodeMessages(d.RawMessages)
	if !ok {
		// Lossy recovery: the corrupted blob is preserved in the log and
		// the history restarts from this message.
		e.log().Warn("corrupted raw_messages blob, restarting history",
			"drive", driveID, "blob", d.RawMessages)
	}
	msgs = append(msgs, rawText)
	d.SetMessages(msgs)

	err = store.UpdateDrive(e.DB, driveID, map[string]interface{}{
		"raw_messages":     d.RawMessages,
		"parse_status":     models.ParsePending,
		"queued_for_retry": true,
	})
	if err != nil {
		return nil, &StorageError{Op: "append message", Err: err}
	}

	if merr := e.attemptMerge(ctx, driveID, msgs, ModeUpdate); merr != nil {
		return e.reload(driveID, d), merr
	}
	return store.GetDrive(e.DB, driveID)
}

// attemptMerge runs one extraction attempt against the drive's current
// state and merges the result. The read is always fresh so queued
// attempts never merge into stale data.
func (e *Engine) attemptMerge(ctx context.Context, driveID uint, messages []string, mode Mode) error {
	d, err := store.GetDrive(e.DB, driveID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "load drive", Err: err}
	}
	rounds, err := store.ListRounds(e.DB, driveID)
	if err != nil {
		return &StorageError{Op: "load rounds", Err: err}
	}

	if e.Creds != nil {
		if _, cerr := e.Creds.Get(); cerr != nil {
			e.markQueued(driveID)
			if errors.Is(cerr, credentials.ErrNotFound) {
				return ErrCredentialMissing
			}
			return &StorageError{Op: "read credential", Err: cerr}
		}
	}

	// Update mode needs a newest message. A queued drive can reach here
	// with an empty history (e.g. rows created by a CSV import); fall back
	// to a full extraction instead of indexing into nothing.
	if len(messages) == 0 {
		mode = ModeNew
	}

	var result *gemini.Result
	var xerr error
	switch mode {
	case ModeNew:
		result, xerr = e.Extractor.ExtractNew(ctx, messages)
	default:
		result, xerr = e.Extractor.ExtractUpdate(ctx, d, rounds, messages[len(messages)-1])
	}
	if xerr != nil {
		e.markQueued(driveID)
		e.log().Warn("extraction failed, drive queued for retry",
			"drive", driveID, "mode", mode, "error", xerr)
		return &ExtractionError{Err: xerr}
	}

	fields := map[string]interface{}{
		"company_name":     mergeField(d.CompanyName, result.CompanyName),
		"role":             mergeField(d.Role, result.Role),
		"location":         mergeField(d.Location, result.Location),
		"ctc_stipend":      mergeField(d.CTCStipend, result.CTCStipend),
		"skills_notes":     mergeField(d.SkillsNotes, result.SkillsNotes),
		"parse_status":     models.ParseParsed,
		"queued_for_retry": false,
	}
	if err := store.UpdateDrive(e.DB, driveID, fields); err != nil {
		return &StorageError{Op: "merge fields", Err: err}
	}

	if err := mergeRounds(e.DB, driveID, rounds, result.Rounds); err != nil {
		return &StorageError{Op: "merge rounds", Err: err}
	}

	e.log().Info("drive parsed", "drive", driveID, "mode", mode,
		"company", mergeField(d.CompanyName, result.CompanyName))
	return nil
}

// markQueued sets the durable needs-another-attempt flag. Best-effort:
// the caller is already on a failure path.
func (e *Engine) markQueued(driveID uint) {
	err := store.UpdateDrive(e.DB, driveID, map[string]interface{}{
		"queued_for_retry": true,
	})
	if err != nil {
		e.log().Error("failed to flag drive for retry", "drive", driveID, "error", err)
	}
}

// reload returns the freshest available view of a drive, falling back to
// the stale copy when the re-read fails.
func (e *Engine) reload(driveID uint, fallback *models.Drive) *models.Drive {
	if d, err := store.GetDrive(e.DB, driveID); err == nil {
		return d
	}
	return fallback
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}
