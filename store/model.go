package store

import "time"

// Link is an external reference attached to a content card.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Content is a single card inside a topic. Image holds an inline-encoded
// image (data URI) or is empty when the card has none.
type Content struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Subtopics   []string  `json:"subtopics"`
	Links       []Link    `json:"links"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Topic owns an ordered list of content cards. A card belongs to exactly
// one topic; there are no cross-topic references.
type Topic struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Contents    []Content `json:"contents"`
	CreatedAt   time.Time `json:"created_at"`
}

// Draft is a rich-text document produced by the editor. The HTML body is
// stored opaquely; the server never interprets it.
type Draft struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
