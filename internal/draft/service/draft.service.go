package service

import (
	"encoding/json"
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"topicdesk/internal/draft/model"
	"topicdesk/internal/draft/repository"
	"topicdesk/socket"
	"topicdesk/store"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftService manages the editor's HTML documents. The server stores the
// HTML opaquely; it only ever inspects it to derive list snippets.
type DraftService struct {
	Repo *repository.DraftRepository
	Hub  *socket.Hub
}

func NewDraftService(repo *repository.DraftRepository, hub *socket.Hub) *DraftService {
	return &DraftService{Repo: repo, Hub: hub}
}

func (s *DraftService) Create(ownerID, title string) (string, error) {
	if title == "" {
		title = "Untitled Draft"
	}
	draftID := uuid.NewString()
	if err := s.Repo.Create(draftID, ownerID, title); err != nil {
		return "", err
	}
	s.notify(socket.DraftUpdateType, ownerID, draftID)
	return draftID, nil
}

func (s *DraftService) List(ownerID string) ([]model.DraftMetadata, error) {
	drafts, err := s.Repo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	metas := make([]model.DraftMetadata, 0, len(drafts))
	for _, d := range drafts {
		metas = append(metas, model.DraftMetadata{
			ID:        d.ID,
			Title:     d.Title,
			UpdatedAt: d.UpdatedAt,
			Snippet:   snippetFromHTML(d.HTML),
		})
	}
	return metas, nil
}

func (s *DraftService) Get(ownerID, draftID string) (*store.Draft, error) {
	draft, err := s.Repo.GetByID(draftID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) SaveHTML(ownerID string, req model.SaveDraftRequest) error {
	rowsAffected, err := s.Repo.SaveHTML(req.DraftID, ownerID, req.HTML)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDraftNotFound
	}
	s.notify(socket.DraftUpdateType, ownerID, req.DraftID)
	return nil
}

func (s *DraftService) Rename(ownerID, draftID, title string) error {
	rowsAffected, err := s.Repo.Rename(draftID, ownerID, title)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDraftNotFound
	}
	s.notify(socket.DraftUpdateType, ownerID, draftID)
	return nil
}

func (s *DraftService) Delete(ownerID, draftID string) error {
	rowsAffected, err := s.Repo.Delete(draftID, ownerID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDraftNotFound
	}
	s.notify(socket.DraftDeleteType, ownerID, draftID)
	return nil
}

func (s *DraftService) notify(msgType, ownerID, draftID string) {
	payload, _ := json.Marshal(map[string]string{"id": draftID})
	s.Hub.Broadcast <- socket.WSMessage{Type: msgType, UserID: ownerID, Payload: payload}
}

// snippetFromHTML strips tags and entities to produce a short plain-text
// preview for list views.
func snippetFromHTML(body string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range body {
		switch {
		case r == '<':
			inTag = true
			// Tag boundaries separate words ("<p>a</p><p>b</p>").
			sb.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
		if sb.Len() > 200 {
			break
		}
	}

	res := html.UnescapeString(sb.String())
	res = strings.Join(strings.Fields(res), " ")
	if len(res) > 100 {
		// Never cut through the middle of a multi-byte rune.
		cut := 100
		for cut > 0 && !utf8.RuneStart(res[cut]) {
			cut--
		}
		return res[:cut] + "..."
	}
	return res
}
