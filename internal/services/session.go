package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runmap-service/internal/domain"
	"time"
)

// Largest run document accepted from a file import.
const MaxRunDocumentBytes = 1 << 20

// Session ties the current run to the preference store: restoring the last
// run on startup plus file import and export.
type Session struct {
	Run   *RunController
	Prefs *Preferences
	Now   func() time.Time
}

func NewSession(run *RunController, prefs *Preferences) *Session {
	return &Session{Run: run, Prefs: prefs, Now: time.Now}
}

// RestoreLastRun reloads the run saved by a previous session. A missing or
// unusable document is not an error; the session just starts empty.
func (s *Session) RestoreLastRun(ctx context.Context) error {
	doc, ok, err := s.Prefs.GetLastRun(ctx)
	if err != nil {
		return fmt.Errorf("restore last run: %w", err)
	}
	if !ok {
		return nil
	}

	err = s.Run.LoadDocument(ctx, []byte(doc))
	switch {
	case err == nil:
		log.Printf("restored last run state=%s dist=%.1fm", s.Run.State(), s.Run.Distance())
	case errors.Is(err, domain.ErrMalformedRunDocument):
		// "{}" is what an empty session saves.
	default:
		log.Printf("restore last run skipped: %v", err)
	}
	return nil
}

// ImportRun loads a user-supplied run file. Malformed documents are
// reported to the caller.
func (s *Session) ImportRun(ctx context.Context, r io.Reader) error {
	b, err := io.ReadAll(io.LimitReader(r, MaxRunDocumentBytes+1))
	if err != nil {
		return fmt.Errorf("import run: read: %w", err)
	}
	if len(b) > MaxRunDocumentBytes {
		return fmt.Errorf("import run: %w: larger than %d bytes", domain.ErrMalformedRunDocument, MaxRunDocumentBytes)
	}

	if err := s.Run.LoadDocument(ctx, b); err != nil {
		return fmt.Errorf("import run: %w", err)
	}
	return nil
}

// ExportRun returns the download file name and the run document.
func (s *Session) ExportRun() (string, []byte, error) {
	doc, err := s.Run.Document()
	if err != nil {
		return "", nil, fmt.Errorf("export run: %w", err)
	}
	return ExportFileName(s.Now()), doc, nil
}

// ExportFileName formats run-M-D-YY.runmap.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("run-%d-%d-%d.runmap", int(t.Month()), t.Day(), t.Year()%100)
}
