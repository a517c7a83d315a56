package conversation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Role identifies who authored a message in the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	// ErrInvalidRole is returned for any role other than user or assistant.
	ErrInvalidRole = errors.New("conversation: invalid role")
	// ErrEmptyContent is returned when a user message has no text.
	ErrEmptyContent = errors.New("conversation: user message content is required")
)

// Message is a single entry in the conversation. Position in the log is its only identity.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Validate checks the role and, for user messages, that the content is not blank.
// Assistant content is kept verbatim, whatever the backend returned.
func (m Message) Validate() error {
	switch m.Role {
	case RoleUser:
		if strings.TrimSpace(m.Content) == "" {
			return ErrEmptyContent
		}
	case RoleAssistant:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	return nil
}

// Log is an ordered, append-only record of messages.
// The only way to drop messages is ReplaceAll, which swaps the whole sequence.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

func NewLog() *Log {
	return &Log{}
}

// Append adds a message at the end of the log.
func (l *Log) Append(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	return nil
}

// ReplaceAll swaps the entire log for msgs. Nothing changes if any message is invalid.
func (l *Log) ReplaceAll(msgs []Message) error {
	for i, m := range msgs {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}

	replacement := make([]Message, len(msgs))
	copy(replacement, msgs)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = replacement
	return nil
}

// Messages returns a copy of the log in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
