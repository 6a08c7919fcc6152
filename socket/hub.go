package socket

import (
	"encoding/json"
	"sync"
	"time"

	"topicdesk/pkg/logger"
)

const (
	BoardUpdateType    = "BOARD_UPDATE"    // Full board payload changed
	DraftUpdateType    = "DRAFT_UPDATE"    // Draft created/saved/renamed
	DraftDeleteType    = "DRAFT_DELETE"    // Draft removed
	PresenceUpdateType = "PRESENCE_UPDATE" // A tab joined or left
)

// WSMessage is the envelope for everything crossing the websocket. TabID
// identifies the originating connection so a tab never echoes to itself.
type WSMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	TabID   string          `json:"tab_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// TabStatus describes one open tab/device in a user's room.
type TabStatus struct {
	TabID    string    `json:"tab_id"`
	LastSeen time.Time `json:"last_seen"`
}

// BoardStore is the slice of the board repository the hub needs: load a
// user's board blob when the first tab joins, flush it when tabs leave or
// the save worker ticks.
type BoardStore interface {
	LoadBlob(userID string) ([]byte, error)
	SaveBlob(userID string, blob []byte) error
}

// Hub keeps one room per user. All open tabs of a user share the room; a
// board mutation from any of them is fanned out to the rest so they can
// re-render. The latest board blob is cached in memory and flushed to the
// store on an interval while dirty.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	store      BoardStore

	Boards      map[string][]byte
	DirtyBoards map[string]bool
	mu          sync.Mutex
	Presence    map[string]map[string]TabStatus // userID -> tabID -> status
}

func NewHub(store BoardStore) *Hub {
	return &Hub{
		Rooms:       make(map[string]map[*Client]bool),
		Broadcast:   make(chan WSMessage),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		store:       store,
		Boards:      make(map[string][]byte),
		DirtyBoards: make(map[string]bool),
		Presence:    make(map[string]map[string]TabStatus),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.UserID] == nil {
				h.Rooms[client.UserID] = make(map[*Client]bool)
				h.Presence[client.UserID] = make(map[string]TabStatus)

				// First tab in the room: load the board from the store.
				blob, err := h.store.LoadBlob(client.UserID)
				if err != nil {
					logger.Sugar.Infof("No stored board for user %s yet: %v", client.UserID, err)
					blob = []byte("[]")
				}
				// A corrupt blob degrades to an empty board, the same way
				// the REST path treats it, instead of being forwarded to
				// the joining tab verbatim.
				var topics []json.RawMessage
				if json.Unmarshal(blob, &topics) != nil {
					logger.Sugar.Warnf("Stored board for user %s is corrupt, starting empty", client.UserID)
					blob = []byte("[]")
				}
				h.Boards[client.UserID] = blob
			}
			h.Rooms[client.UserID][client] = true
			h.Presence[client.UserID][client.TabID] = TabStatus{TabID: client.TabID, LastSeen: time.Now()}

			currentBoard := h.Boards[client.UserID]
			h.mu.Unlock()

			// Send the full board to the tab that just joined so it can render.
			initialMsg, _ := json.Marshal(WSMessage{
				Type:    BoardUpdateType,
				UserID:  client.UserID,
				Payload: json.RawMessage(currentBoard),
			})
			client.Send <- initialMsg

			h.broadcastPresenceUpdate(client.UserID)

		case client := <-h.Unregister:
			if h.removeClient(client) {
				h.broadcastPresenceUpdate(client.UserID)
			}

		case msg := <-h.Broadcast:
			h.mu.Lock()
			// A board update carries the full serialized topic list; remember
			// it and mark the board for persistence. Only users with an open
			// room are cached: a REST mutation for a user with no connected
			// tabs has already been written synchronously, and caching it
			// here would leave the blob in memory with nobody to clean it up.
			if msg.Type == BoardUpdateType {
				if _, ok := h.Rooms[msg.UserID]; ok {
					h.Boards[msg.UserID] = msg.Payload
					h.DirtyBoards[msg.UserID] = true
				}
			}

			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				h.mu.Unlock()
				continue
			}

			// Everyone in the room except the tab that sent the change.
			clientsToSend := make([]*Client, 0, len(h.Rooms[msg.UserID]))
			for client := range h.Rooms[msg.UserID] {
				if client.TabID != msg.TabID {
					clientsToSend = append(clientsToSend, client)
				}
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// Full send buffer means the tab is lagging. Evict it
					// inline; Run is the only receiver of Unregister, so
					// sending there from here would block the hub on itself.
					logger.Sugar.Warnf("Tab %s's send buffer is full. Evicting.", client.TabID)
					if h.removeClient(client) {
						h.broadcastPresenceUpdate(client.UserID)
					}
				}
			}
		}
	}
}

// removeClient drops a tab from its room and releases the room's resources
// when the last tab leaves. It reports whether the room still exists so the
// caller can fan out a presence update. Safe to call twice for the same
// client; the second call is a no-op.
func (h *Hub) removeClient(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.UserID
	if _, ok := h.Rooms[userID][client]; !ok {
		return false
	}
	delete(h.Rooms[userID], client)
	delete(h.Presence[userID], client.TabID)
	close(client.Send)

	if len(h.Rooms[userID]) == 0 {
		if h.DirtyBoards[userID] {
			if err := h.store.SaveBlob(userID, h.Boards[userID]); err != nil {
				logger.Sugar.Errorf("Failed to save board for %s on close: %v", userID, err)
			}
		}
		delete(h.Rooms, userID)
		delete(h.Presence, userID)
		delete(h.Boards, userID)
		delete(h.DirtyBoards, userID)
		logger.Sugar.Infof("Closed and cleaned up empty room: %s", userID)
		return false
	}
	return true
}

// SaveWorker flushes dirty boards to the store on a fixed interval.
func (h *Hub) SaveWorker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		boardsToSave := make(map[string][]byte)

		h.mu.Lock()
		for userID, isDirty := range h.DirtyBoards {
			if isDirty {
				blobCopy := make([]byte, len(h.Boards[userID]))
				copy(blobCopy, h.Boards[userID])
				boardsToSave[userID] = blobCopy
			}
		}
		h.mu.Unlock()

		// Database I/O happens without holding the hub's lock.
		for userID, blob := range boardsToSave {
			if err := h.store.SaveBlob(userID, blob); err != nil {
				logger.Sugar.Errorf("Failed to save board for %s: %v", userID, err)
				continue // Dirty flag stays set, retried on the next tick.
			}

			h.mu.Lock()
			// Only mark clean if no new change landed while we were saving.
			if string(h.Boards[userID]) == string(blob) {
				h.DirtyBoards[userID] = false
			}
			h.mu.Unlock()

			logger.Sugar.Infof("Auto-saved board for user: %s", userID)
		}
	}
}

func (h *Hub) broadcastPresenceUpdate(userID string) {
	var tabStatuses []TabStatus
	var clientsToSend []*Client

	h.mu.Lock()
	if _, ok := h.Presence[userID]; ok {
		tabStatuses = make([]TabStatus, 0, len(h.Presence[userID]))
		for _, status := range h.Presence[userID] {
			tabStatuses = append(tabStatuses, status)
		}

		clientsToSend = make([]*Client, 0, len(h.Rooms[userID]))
		for client := range h.Rooms[userID] {
			clientsToSend = append(clientsToSend, client)
		}
	}
	h.mu.Unlock()

	if len(clientsToSend) == 0 {
		return
	}

	payload, err := json.Marshal(tabStatuses)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling presence broadcast: %v", err)
		return
	}
	broadcastPayload, _ := json.Marshal(WSMessage{Type: PresenceUpdateType, UserID: userID, Payload: payload})

	for _, client := range clientsToSend {
		select {
		case client.Send <- broadcastPayload:
		default:
			// The pumps will take care of unresponsive tabs.
			logger.Sugar.Warnf("Tab %s's send buffer was full during presence update.", client.TabID)
		}
	}
}
