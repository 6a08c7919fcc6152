package model

import "topicdesk/store"

type CreateTopicResponse struct {
	TopicID string `json:"topic_id"`
}

type CreateTopicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTopicRequest is a shallow merge: nil fields stay untouched, an empty
// string is a valid overwrite.
type UpdateTopicRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddContentRequest struct {
	TopicID     string       `json:"topic_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subtopics   []string     `json:"subtopics"`
	Links       []store.Link `json:"links"`
	Image       string       `json:"image"`
}

type AddContentResponse struct {
	ContentID string `json:"content_id"`
}

type UpdateContentRequest struct {
	TopicID     string        `json:"topic_id"`
	ContentID   string        `json:"content_id"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Subtopics   *[]string     `json:"subtopics"`
	Links       *[]store.Link `json:"links"`
	Image       *string       `json:"image"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}
