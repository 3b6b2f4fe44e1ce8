package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSyncStarted   = "SYNC_STARTED"
	EventSyncCompleted = "SYNC_COMPLETED"
	EventSyncFailed    = "SYNC_FAILED"
)

// NewSyncStarted records the beginning of a workspace sync run.
func NewSyncStarted(syncId string, workspaceId uuid.UUID, trigger string) Event {
	return BaseEvent{
		Type: EventSyncStarted,
		Data: map[string]interface{}{
			"sync_id":      syncId,
			"workspace_id": workspaceId.String(),
			"trigger":      trigger,
		},
		OccurredAt: time.Now(),
	}
}

// NewSyncCompleted records a finished run, including partial completions.
func NewSyncCompleted(syncId string, workspaceId uuid.UUID, status string, exported, failed int, duration time.Duration) Event {
	return BaseEvent{
		Type: EventSyncCompleted,
		Data: map[string]interface{}{
			"sync_id":        syncId,
			"workspace_id":   workspaceId.String(),
			"status":         status,
			"pages_exported": exported,
			"pages_failed":   failed,
			"duration_ms":    duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// NewSyncFailed records a run that could not produce any output.
func NewSyncFailed(syncId string, workspaceId uuid.UUID, reason string) Event {
	return BaseEvent{
		Type: EventSyncFailed,
		Data: map[string]interface{}{
			"sync_id":      syncId,
			"workspace_id": workspaceId.String(),
			"reason":       reason,
		},
		OccurredAt: time.Now(),
	}
}
