package model

import "time"

type CreateDraftResponse struct {
	DraftID string `json:"draft_id"`
}

type CreateDraftRequest struct {
	Title string `json:"title"`
}

type RenameDraftRequest struct {
	Title string `json:"title"`
}

type SaveDraftRequest struct {
	DraftID string `json:"draft_id"`
	HTML    string `json:"html"`
}

type DraftMetadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Snippet   string    `json:"snippet"`
}
