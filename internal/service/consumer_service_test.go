package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// blockingSyncService parks every trigger until released so tests can observe
// whether triggers for different workspaces run at the same time.
type blockingSyncService struct {
	started chan uuid.UUID
	release chan struct{}
}

func (b *blockingSyncService) TriggerSync(ctx context.Context, req *dto.TriggerSyncRequest) (*dto.SyncReport, error) {
	b.started <- req.WorkspaceId
	<-b.release
	return &dto.SyncReport{}, nil
}

func (b *blockingSyncService) Status(ctx context.Context, workspaceId uuid.UUID) (*dto.SyncStatusResponse, error) {
	return &dto.SyncStatusResponse{WorkspaceId: workspaceId}, nil
}

func TestConsumeRunsWorkspacesConcurrently(t *testing.T) {
	const topic = "sync-trigger-test"

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	syncSvc := &blockingSyncService{
		started: make(chan uuid.UUID, 2),
		release: make(chan struct{}),
	}
	defer close(syncSvc.release)

	cs := NewConsumerService(pubSub, topic, syncSvc, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cs.Consume(ctx); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	for i := 0; i < 2; i++ {
		payload, err := json.Marshal(dto.TriggerSyncRequest{WorkspaceId: uuid.New(), Trigger: "scheduled"})
		if err != nil {
			t.Fatal(err)
		}
		if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	// Both triggers must enter the sync service while neither run has
	// finished. A consumer that waits for one export before taking the next
	// message never starts the second within the deadline.
	seen := make(map[uuid.UUID]bool)
	deadline := time.After(3 * time.Second)
	for len(seen) < 2 {
		select {
		case id := <-syncSvc.started:
			seen[id] = true
		case <-deadline:
			t.Fatalf("only %d of 2 triggers started, workspaces are being serialized", len(seen))
		}
	}
}

func TestConsumeSkipsMalformedTriggers(t *testing.T) {
	const topic = "sync-trigger-test-malformed"

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	syncSvc := &blockingSyncService{
		started: make(chan uuid.UUID, 1),
		release: make(chan struct{}),
	}
	defer close(syncSvc.release)

	cs := NewConsumerService(pubSub, topic, syncSvc, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cs.Consume(ctx); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), []byte("not json"))); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	valid, err := json.Marshal(dto.TriggerSyncRequest{WorkspaceId: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if err := pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), valid)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// The malformed message is acked and dropped; the next one still runs.
	select {
	case <-syncSvc.started:
	case <-time.After(3 * time.Second):
		t.Fatal("valid trigger after a malformed one was never processed")
	}
}
