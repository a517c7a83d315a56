package events

import (
	"context"
	"time"
)

const (
	TypeDocumentUploaded = "document.uploaded"
	TypeQuestionAnswered = "question.answered"
)

// Event is the contract for usage events emitted by the backend.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func DocumentUploaded(documentID, filename string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentUploaded,
		Data: map[string]interface{}{
			"document_id": documentID,
			"filename":    filename,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}

func QuestionAnswered(documentID string, questionLength, answerLength int, took time.Duration) Event {
	return BaseEvent{
		Type: TypeQuestionAnswered,
		Data: map[string]interface{}{
			"document_id":     documentID,
			"question_length": questionLength,
			"answer_length":   answerLength,
			"duration_ms":     took.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// Publisher sends events to a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
