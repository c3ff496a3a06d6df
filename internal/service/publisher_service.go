package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
)

type IPublisherService interface {
	PublishPersistMessages(ctx context.Context, payload dto.PersistMessagesMessage) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

// PublishPersistMessages hands a message-list snapshot to the persist
// worker. The caller returns immediately; durability is the worker's
// problem.
func (p *publisherService) PublishPersistMessages(_ context.Context, payload dto.PersistMessagesMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal persist payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("publish persist message: %w", err)
	}
	return nil
}
