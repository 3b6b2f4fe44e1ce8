package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	syncService ISyncService
	log         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	syncService ISyncService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		syncService: syncService,
		log:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.dispatch(ctx, msg)
		}
	}()

	return nil
}

// dispatch acks the trigger on receipt and runs the sync on its own
// goroutine. The bus holds back further deliveries until the current message
// is acked, so acking only after the run would serialize every workspace
// behind one export. Triggers are never retried: an overlapping run is
// already doing the work and a failed run records its own terminal result.
func (cs *consumerService) dispatch(ctx context.Context, msg *message.Message) {
	var req dto.TriggerSyncRequest
	err := json.Unmarshal(msg.Payload, &req)
	msg.Ack()
	if err != nil {
		cs.log.Error("consumer", "failed to unmarshal sync trigger", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	go cs.runTrigger(ctx, &req)
}

func (cs *consumerService) runTrigger(ctx context.Context, req *dto.TriggerSyncRequest) {
	report, err := cs.syncService.TriggerSync(ctx, req)
	if err != nil {
		// An already-running sync means the work is being done; dropping the
		// trigger is correct, retrying is not.
		if errors.Is(err, ErrSyncInProgress) {
			cs.log.Warn("consumer", "sync trigger dropped, run already in progress", map[string]interface{}{
				"workspace_id": req.WorkspaceId.String(),
			})
			return
		}
		cs.log.Error("consumer", "scheduled sync failed", map[string]interface{}{
			"workspace_id": req.WorkspaceId.String(),
			"error":        err.Error(),
		})
		return
	}

	cs.log.Info("consumer", "scheduled sync completed", map[string]interface{}{
		"workspace_id": req.WorkspaceId.String(),
		"status":       string(report.Result.Status),
		"summary":      report.Summary,
	})
}
