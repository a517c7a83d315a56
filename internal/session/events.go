package session

import (
	"time"

	"ai-docchat/internal/conversation"
)

type EventType string

const (
	EventStateChanged    EventType = "state_changed"
	EventMessageAppended EventType = "message_appended"
	EventLogReplaced     EventType = "log_replaced"
	EventScrollToLatest  EventType = "scroll_to_latest"
)

// Event is a notification for views and diagnostics. The controller never reads events back.
type Event struct {
	Type     EventType
	State    State
	Previous State // set on state_changed
	Message  *conversation.Message
	LogLen   int
	At       time.Time
}

type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) {
	f(e)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}

// Notifiers fans an event out to every non-nil notifier, in order.
func Notifiers(ns ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
