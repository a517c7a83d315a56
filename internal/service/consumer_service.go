package service

import (
	"context"
	"encoding/json"
	"sync"

	"ai-docchat/internal/conversation"
	"ai-docchat/internal/dto"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/session"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	// Consume subscribes and processes messages in the background until ctx is done.
	Consume(ctx context.Context) error
	Stats() SessionStats
	// Wait blocks until the background loop has exited.
	Wait()
}

// SessionStats counts what happened in a session, as seen on the bus.
type SessionStats struct {
	Events        int
	Uploads       int
	Questions     int
	Answers       int
	StateChanges  int
	LogsReplaced  int
	LastState     string
	MalformedSeen int
}

// diagnosticsConsumer logs every session event and keeps running counters.
type diagnosticsConsumer struct {
	subscriber message.Subscriber
	topic      string
	logger     logger.ILogger

	mu    sync.Mutex
	stats SessionStats
	done  chan struct{}
}

func NewDiagnosticsConsumer(subscriber message.Subscriber, topic string, sysLogger logger.ILogger) IConsumerService {
	return &diagnosticsConsumer{
		subscriber: subscriber,
		topic:      topic,
		logger:     sysLogger,
		done:       make(chan struct{}),
	}
}

func (c *diagnosticsConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return err
	}

	go func() {
		defer close(c.done)
		for msg := range messages {
			c.processMessage(msg)
		}
	}()

	return nil
}

func (c *diagnosticsConsumer) processMessage(msg *message.Message) {
	// Ack in every case; a malformed diagnostic is not worth redelivering.
	defer msg.Ack()

	var payload dto.SessionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.mu.Lock()
		c.stats.MalformedSeen++
		c.mu.Unlock()
		c.logger.Warn("DIAGNOSTICS", "Dropping malformed session event", map[string]interface{}{"error": err.Error()})
		return
	}

	c.mu.Lock()
	c.stats.Events++
	switch payload.Type {
	case string(session.EventStateChanged):
		c.stats.StateChanges++
		c.stats.LastState = payload.State
		if payload.State == string(session.StateUploading) {
			c.stats.Uploads++
		}
	case string(session.EventMessageAppended):
		if payload.Role == string(conversation.RoleUser) {
			c.stats.Questions++
		} else {
			c.stats.Answers++
		}
	case string(session.EventLogReplaced):
		c.stats.LogsReplaced++
	}
	c.mu.Unlock()

	c.logger.Info("DIAGNOSTICS", "Session event", map[string]interface{}{
		"type":           payload.Type,
		"state":          payload.State,
		"previous":       payload.Previous,
		"role":           payload.Role,
		"content_length": payload.ContentLength,
		"log_length":     payload.LogLength,
	})
}

func (c *diagnosticsConsumer) Stats() SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *diagnosticsConsumer) Wait() {
	<-c.done
}
