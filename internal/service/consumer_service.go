package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the PERSIST_MESSAGES topic: each message is a
// full replace-list snapshot written through the conversation service.
type consumerService struct {
	pubSub              *gochannel.GoChannel
	topicName           string
	conversationService IConversationService
	log                 logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	conversationService IConversationService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:              pubSub,
		topicName:           topicName,
		conversationService: conversationService,
		log:                 log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistMessagesMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("persist_worker", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	err := cs.conversationService.ReplaceMessages(ctx, payload.UserId, payload.ConversationId, payload.Messages)
	if err != nil {
		// Snapshots for deleted conversations are stale, not retriable.
		if chat.StatusCode(err) == 404 {
			cs.log.Warn("persist_worker", "conversation gone, dropping snapshot", map[string]interface{}{
				"conversation_id": payload.ConversationId.String(),
			})
			msg.Ack()
			return
		}
		cs.log.Error("persist_worker", "failed to persist message list", map[string]interface{}{
			"conversation_id": payload.ConversationId.String(),
			"error":           err.Error(),
		})
		msg.Nack() // Retry
		return
	}

	cs.log.Debug("persist_worker", "message list persisted", map[string]interface{}{
		"conversation_id": payload.ConversationId.String(),
		"count":           len(payload.Messages),
	})
	msg.Ack()
}
