package service

import (
	"encoding/json"
	"errors"
	"time"

	"topicdesk/internal/board/model"
	"topicdesk/internal/board/repository"
	"topicdesk/pkg/keygen"
	"topicdesk/pkg/logger"
	"topicdesk/socket"
	"topicdesk/store"
)

var (
	ErrTopicNotFound   = errors.New("topic not found")
	ErrContentNotFound = errors.New("content not found")
	ErrInvalidImport   = errors.New("import payload is not a valid board export")
)

// BoardService is the CRUD manager over a user's topic list. Every mutation
// loads the whole list, changes it in memory, writes the whole list back,
// and broadcasts the new state to the user's other open tabs.
type BoardService struct {
	Repo *repository.BoardRepository
	Hub  *socket.Hub
}

func NewBoardService(repo *repository.BoardRepository, hub *socket.Hub) *BoardService {
	return &BoardService{Repo: repo, Hub: hub}
}

// load returns the user's topic list. A missing blob is an empty board; a
// corrupt blob degrades to an empty board with a warning rather than
// blocking the user out of their data.
func (s *BoardService) load(userID string) ([]store.Topic, error) {
	blob, err := s.Repo.Load(userID, repository.BoardKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []store.Topic{}, nil
		}
		return nil, err
	}

	var topics []store.Topic
	if err := json.Unmarshal(blob, &topics); err != nil {
		logger.Sugar.Warnf("Stored board for user %s is corrupt, starting empty: %v", userID, err)
		return []store.Topic{}, nil
	}
	if topics == nil {
		topics = []store.Topic{}
	}
	return topics, nil
}

// persist writes the whole list back and tells the user's other tabs to
// re-render.
func (s *BoardService) persist(userID string, topics []store.Topic) error {
	blob, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	if err := s.Repo.Save(userID, repository.BoardKey, blob); err != nil {
		return err
	}

	s.Hub.Broadcast <- socket.WSMessage{
		Type:    socket.BoardUpdateType,
		UserID:  userID,
		Payload: json.RawMessage(blob),
	}
	return nil
}

func (s *BoardService) ListTopics(userID string) ([]store.Topic, error) {
	return s.load(userID)
}

func (s *BoardService) GetTopic(userID, topicID string) (*store.Topic, error) {
	topics, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	for i := range topics {
		if topics[i].ID == topicID {
			return &topics[i], nil
		}
	}
	return nil, ErrTopicNotFound
}

func (s *BoardService) CreateTopic(userID, name, description string) (string, error) {
	topics, err := s.load(userID)
	if err != nil {
		return "", err
	}

	topic := store.Topic{
		ID:          keygen.New(),
		Name:        name,
		Description: description,
		Contents:    []store.Content{},
		CreatedAt:   time.Now().UTC(),
	}
	topics = append(topics, topic)

	if err := s.persist(userID, topics); err != nil {
		return "", err
	}
	return topic.ID, nil
}

func (s *BoardService) UpdateTopic(userID, topicID string, req model.UpdateTopicRequest) error {
	topics, err := s.load(userID)
	if err != nil {
		return err
	}

	found := false
	for i := range topics {
		if topics[i].ID != topicID {
			continue
		}
		if req.Name != nil {
			topics[i].Name = *req.Name
		}
		if req.Description != nil {
			topics[i].Description = *req.Description
		}
		found = true
		break
	}
	if !found {
		return ErrTopicNotFound
	}

	return s.persist(userID, topics)
}

func (s *BoardService) DeleteTopic(userID, topicID string) error {
	topics, err := s.load(userID)
	if err != nil {
		return err
	}

	// Filter-based removal; the topic's contents go with it.
	kept := topics[:0]
	for _, t := range topics {
		if t.ID != topicID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(topics) {
		return ErrTopicNotFound
	}

	return s.persist(userID, kept)
}

func (s *BoardService) AddContent(userID string, req model.AddContentRequest) (string, error) {
	topics, err := s.load(userID)
	if err != nil {
		return "", err
	}

	content := store.Content{
		ID:          keygen.New(),
		Title:       req.Title,
		Description: req.Description,
		Subtopics:   req.Subtopics,
		Links:       req.Links,
		Image:       req.Image,
		CreatedAt:   time.Now().UTC(),
	}
	if content.Subtopics == nil {
		content.Subtopics = []string{}
	}
	if content.Links == nil {
		content.Links = []store.Link{}
	}

	found := false
	for i := range topics {
		if topics[i].ID == req.TopicID {
			topics[i].Contents = append(topics[i].Contents, content)
			found = true
			break
		}
	}
	if !found {
		return "", ErrTopicNotFound
	}

	if err := s.persist(userID, topics); err != nil {
		return "", err
	}
	return content.ID, nil
}

func (s *BoardService) UpdateContent(userID string, req model.UpdateContentRequest) error {
	topics, err := s.load(userID)
	if err != nil {
		return err
	}

	topicIdx := -1
	for i := range topics {
		if topics[i].ID == req.TopicID {
			topicIdx = i
			break
		}
	}
	if topicIdx < 0 {
		return ErrTopicNotFound
	}

	contents := topics[topicIdx].Contents
	found := false
	for i := range contents {
		if contents[i].ID != req.ContentID {
			continue
		}
		if req.Title != nil {
			contents[i].Title = *req.Title
		}
		if req.Description != nil {
			contents[i].Description = *req.Description
		}
		if req.Subtopics != nil {
			contents[i].Subtopics = *req.Subtopics
		}
		if req.Links != nil {
			contents[i].Links = *req.Links
		}
		if req.Image != nil {
			contents[i].Image = *req.Image
		}
		found = true
		break
	}
	if !found {
		return ErrContentNotFound
	}

	return s.persist(userID, topics)
}

func (s *BoardService) DeleteContent(userID, topicID, contentID string) error {
	topics, err := s.load(userID)
	if err != nil {
		return err
	}

	topicIdx := -1
	for i := range topics {
		if topics[i].ID == topicID {
			topicIdx = i
			break
		}
	}
	if topicIdx < 0 {
		return ErrTopicNotFound
	}

	contents := topics[topicIdx].Contents
	kept := contents[:0]
	for _, c := range contents {
		if c.ID != contentID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(contents) {
		return ErrContentNotFound
	}
	topics[topicIdx].Contents = kept

	return s.persist(userID, topics)
}

// Export returns the whole board as an indented JSON document, ready to be
// downloaded as a backup file.
func (s *BoardService) Export(userID string) ([]byte, error) {
	topics, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(topics, "", "  ")
}

// Import parses an exported board. On a parse failure the stored board is
// left untouched. Replace mode overwrites the board; merge mode appends the
// imported topics after the existing ones. Records missing IDs or creation
// timestamps get them assigned here.
func (s *BoardService) Import(userID string, raw []byte, merge bool) (int, error) {
	var imported []store.Topic
	if err := json.Unmarshal(raw, &imported); err != nil {
		return 0, ErrInvalidImport
	}

	now := time.Now().UTC()
	for i := range imported {
		if imported[i].ID == "" {
			imported[i].ID = keygen.New()
		}
		if imported[i].CreatedAt.IsZero() {
			imported[i].CreatedAt = now
		}
		if imported[i].Contents == nil {
			imported[i].Contents = []store.Content{}
		}
		for j := range imported[i].Contents {
			c := &imported[i].Contents[j]
			if c.ID == "" {
				c.ID = keygen.New()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			if c.Subtopics == nil {
				c.Subtopics = []string{}
			}
			if c.Links == nil {
				c.Links = []store.Link{}
			}
		}
	}

	topics := imported
	if merge {
		existing, err := s.load(userID)
		if err != nil {
			return 0, err
		}
		topics = append(existing, imported...)
	}

	if err := s.persist(userID, topics); err != nil {
		return 0, err
	}
	return len(imported), nil
}
