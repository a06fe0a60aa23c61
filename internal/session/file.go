package session

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// Load reads and validates a session file. The encoding follows the file
// extension.
func Load(path string) (model.Session, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.Session{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Session{}, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
	}()

	s, err := Decode(f, format)
	if err != nil {
		return model.Session{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(s); err != nil {
		return model.Session{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes a session file, choosing the encoding from the extension.
func Save(path string, s model.Session) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Prepare assigns an ID and creation time when the session has none.
func Prepare(s model.Session, now time.Time) model.Session {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now.UTC()
	}
	return s
}

// Merge fills the parts missing from dst with those from src. Parts already
// present in dst are kept.
func Merge(dst, src model.Session) model.Session {
	if dst.ID == "" {
		dst.ID = src.ID
	}
	if dst.CreatedAt.IsZero() {
		dst.CreatedAt = src.CreatedAt
	}
	if len(dst.Prefeel) == 0 {
		dst.Prefeel = src.Prefeel
	}
	if len(dst.Fixed) == 0 {
		dst.Fixed = src.Fixed
	}
	if dst.FreePick == nil {
		dst.FreePick = src.FreePick
	}
	if dst.Chrono == nil {
		dst.Chrono = src.Chrono
	}
	if dst.Stability == nil {
		dst.Stability = src.Stability
	}
	if dst.Tone == nil {
		dst.Tone = src.Tone
	}
	if dst.Breath == nil {
		dst.Breath = src.Breath
	}
	return dst
}

// Parts lists the names of the parts present in s.
func Parts(s model.Session) []string {
	var parts []string
	if len(s.Prefeel) > 0 {
		parts = append(parts, "prefeel")
	}
	if len(s.Fixed) > 0 {
		parts = append(parts, "fixed")
	}
	if s.FreePick != nil {
		parts = append(parts, "freepick")
	}
	if s.Chrono != nil {
		parts = append(parts, "chrono")
	}
	if s.Stability != nil {
		parts = append(parts, "stability")
	}
	if s.Tone != nil {
		parts = append(parts, "tone")
	}
	if s.Breath != nil {
		parts = append(parts, "breath")
	}
	return parts
}
