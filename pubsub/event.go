package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"
	"github.com/summitwealth/ledger"
)

// EventService publishes ledger events on the notifications topic. Event
// delivery is fire and forget: notifications happen after the store
// transaction commits and never affect the outcome of an operation.
type EventService struct {
	client *Client
	logger ledger.Logger
}

func NewEventService(client *Client, logger ledger.Logger) *EventService {
	return &EventService{client, logger}
}

func (es *EventService) Publish(event *ledger.Event) {
	es.publishOnNotificationsTopic(context.TODO(), event)
}

func (es *EventService) publishOnNotificationsTopic(
	ctx context.Context,
	event *ledger.Event,
) {
	topicLogger := es.logger.WithField("topic", "notifications")

	messageData, err := json.Marshal(&notificationEvent{
		Email:   event.Email,
		Payload: event.Payload,
	})
	if err != nil {
		topicLogger.Errorf("could not marshal ledger event: [%v]", err)
		return
	}

	es.publishOnTopic(
		ctx,
		es.client.notificationsTopic,
		messageData,
		topicLogger,
	)
}

func (es *EventService) publishOnTopic(
	ctx context.Context,
	topic *pubsub.Topic,
	messageData []byte,
	topicLogger ledger.Logger,
) {
	result := topic.Publish(ctx, &pubsub.Message{
		Data: messageData,
	})

	go func() {
		id, err := result.Get(ctx)
		if err != nil {
			topicLogger.Errorf(
				"could not publish ledger event: [%v]",
				err,
			)
			return
		}

		topicLogger.Infof("published ledger event with ID: [%v]", id)
	}()
}

type notificationEvent struct {
	Email   string
	Payload string
}
