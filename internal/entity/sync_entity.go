package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the terminal (or in-flight) state of one sync run.
type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusPartial    SyncStatus = "partial"
	SyncStatusFailed     SyncStatus = "failed"
)

// ConflictKind classifies a clash between a file about to be written and the
// file already on disk.
type ConflictKind string

const (
	ConflictFileExists       ConflictKind = "file_exists"
	ConflictNewerVersion     ConflictKind = "newer_version"
	ConflictPermissionDenied ConflictKind = "permission_denied"
)

// ConflictResolution is how a detected conflict was (or should be) handled.
type ConflictResolution string

const (
	ResolutionOverwrite ConflictResolution = "overwrite"
	ResolutionSkip      ConflictResolution = "skip"
	ResolutionMerge     ConflictResolution = "merge"
)

type ConflictInfo struct {
	FilePath   string             `json:"filePath"`
	Kind       ConflictKind       `json:"kind"`
	Resolution ConflictResolution `json:"resolution"`
	Message    string             `json:"message"`
}

// SyncStats aggregates the outcome of one sync run across all mapped spaces.
type SyncStats struct {
	TotalSpaces      int            `json:"totalSpaces"`
	SuccessfulSpaces int            `json:"successfulSpaces"`
	FailedSpaces     int            `json:"failedSpaces"`
	TotalPages       int            `json:"totalPages"`
	SuccessfulPages  int            `json:"successfulPages"`
	FailedPages      int            `json:"failedPages"`
	Conflicts        []ConflictInfo `json:"conflicts,omitempty"`
	Errors           []string       `json:"errors,omitempty"`
}

// SyncResult is the durable record of one sync run. The most recent fifty are
// kept per workspace, newest first.
type SyncResult struct {
	SyncId         uuid.UUID          `json:"syncId"`
	WorkspaceId    uuid.UUID          `json:"workspaceId"`
	Status         SyncStatus         `json:"status"`
	StartTime      time.Time          `json:"startTime"`
	EndTime        time.Time          `json:"endTime"`
	Duration       time.Duration      `json:"duration"`
	Stats          SyncStats          `json:"stats"`
	ConfigSnapshot *IntegrationConfig `json:"configSnapshot,omitempty"`
}
