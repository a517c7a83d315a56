package dto

import "github.com/google/uuid"

type UploadDocumentResponse struct {
	Message  string    `json:"message"`
	Filename string    `json:"filename"`
	Id       uuid.UUID `json:"id"`
	Chunks   int       `json:"chunks"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

type AskResponse struct {
	Answer  string `json:"answer"`
	Sources int    `json:"sources"`
}
