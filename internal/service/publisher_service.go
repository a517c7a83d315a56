package service

import (
	"encoding/json"

	"ai-docchat/internal/dto"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const SessionEventsTopic = "session.events"

// SessionEventPublisher forwards controller events to a watermill topic.
// It is a session.Notifier, so it can be handed straight to the controller.
type SessionEventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

var _ session.Notifier = &SessionEventPublisher{}

func NewSessionEventPublisher(publisher message.Publisher, topic string, sysLogger logger.ILogger) *SessionEventPublisher {
	return &SessionEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    sysLogger,
	}
}

func (p *SessionEventPublisher) Notify(e session.Event) {
	payload := dto.SessionEventMessage{
		Type:      string(e.Type),
		State:     string(e.State),
		Previous:  string(e.Previous),
		LogLength: e.LogLen,
		At:        e.At,
	}
	if e.Message != nil {
		payload.Role = string(e.Message.Role)
		payload.ContentLength = len(e.Message.Content)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("PUBLISHER", "Failed to marshal session event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Warn("PUBLISHER", "Failed to publish session event", map[string]interface{}{
			"type":  payload.Type,
			"error": err.Error(),
		})
	}
}
