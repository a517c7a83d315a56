package dto

import "time"

// SessionEventMessage is the bus payload for a session controller event.
// Message text is not carried, only its size.
type SessionEventMessage struct {
	Type          string    `json:"type"`
	State         string    `json:"state"`
	Previous      string    `json:"previous,omitempty"`
	Role          string    `json:"role,omitempty"`
	ContentLength int       `json:"content_length,omitempty"`
	LogLength     int       `json:"log_length"`
	At            time.Time `json:"at"`
}
