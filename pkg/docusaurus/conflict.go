package docusaurus

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/byeager-uptime/docmost/internal/entity"
)

// DefaultResolution is the built-in policy per conflict kind: plain
// file-exists conflicts are overwritten, anything suspicious is skipped.
func DefaultResolution(kind entity.ConflictKind) entity.ConflictResolution {
	switch kind {
	case entity.ConflictFileExists:
		return entity.ResolutionOverwrite
	case entity.ConflictNewerVersion:
		return entity.ResolutionSkip
	case entity.ConflictPermissionDenied:
		return entity.ResolutionSkip
	}
	return entity.ResolutionSkip
}

// detectConflict inspects the target path before a write. It returns nil when
// the path is clean or already holds identical bytes (identical is reported
// via the second return so callers can skip the write entirely).
func detectConflict(path string, newContent []byte, lastSync *time.Time) (*entity.ConflictInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsPermission(err) {
			return &entity.ConflictInfo{
				FilePath:   path,
				Kind:       entity.ConflictPermissionDenied,
				Resolution: DefaultResolution(entity.ConflictPermissionDenied),
				Message:    err.Error(),
			}, false
		}
		// Not there yet: clean write
		return nil, false
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return &entity.ConflictInfo{
				FilePath:   path,
				Kind:       entity.ConflictPermissionDenied,
				Resolution: DefaultResolution(entity.ConflictPermissionDenied),
				Message:    err.Error(),
			}, false
		}
		return &entity.ConflictInfo{
			FilePath:   path,
			Kind:       entity.ConflictFileExists,
			Resolution: DefaultResolution(entity.ConflictFileExists),
			Message:    fmt.Sprintf("unreadable existing file: %v", err),
		}, false
	}

	if bytes.Equal(existing, newContent) {
		return nil, true
	}

	kind := entity.ConflictFileExists
	// A target modified after the last successful sync implies an
	// out-of-band edit that should not be silently clobbered.
	if lastSync != nil && info.ModTime().After(*lastSync) {
		kind = entity.ConflictNewerVersion
	}

	return &entity.ConflictInfo{
		FilePath:   path,
		Kind:       kind,
		Resolution: DefaultResolution(kind),
		Message:    fmt.Sprintf("target file already exists with different content (%d bytes)", len(existing)),
	}, false
}

// backupFile copies the existing file aside with a timestamp suffix; used by
// the merge resolution before overwriting.
func backupFile(path string, now time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	backupPath := fmt.Sprintf("%s.%s.bak", path, now.UTC().Format("20060102T150405"))
	return os.WriteFile(backupPath, data, 0o644)
}
