package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the single active document held by the backend.
type Document struct {
	Id          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Chunks      []string  `json:"chunks"`
	CharCount   int       `json:"char_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
