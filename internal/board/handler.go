package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"topicdesk/internal/board/model"
	"topicdesk/internal/board/service"
	"topicdesk/middleware"
	"topicdesk/pkg/logger"
)

type BoardHandler struct {
	Service *service.BoardService
}

func NewBoardHandler(service *service.BoardService) *BoardHandler {
	return &BoardHandler{Service: service}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTopicNotFound), errors.Is(err, service.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidImport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *BoardHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r)

	topics, err := h.Service.ListTopics(userID)
	if err != nil {
		logger.Sugar.Errorf("Error fetching topics: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(topics)
}

func (h *BoardHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topicID := r.URL.Query().Get("topicId")
	if topicID == "" {
		http.Error(w, "Missing topicId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	topic, err := h.Service.GetTopic(userID, topicID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to get topic %s: %v", topicID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(topic)
}

func (h *BoardHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r)

	var req model.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Invalid request body: name is required", http.StatusBadRequest)
		return
	}

	topicID, err := h.Service.CreateTopic(userID, req.Name, req.Description)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create topic: %v", err)
		http.Error(w, "Failed to create topic: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.CreateTopicResponse{TopicID: topicID})
}

func (h *BoardHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topicID := r.URL.Query().Get("topicId")
	if topicID == "" {
		http.Error(w, "Missing topicId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	var req model.UpdateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name != nil && *req.Name == "" {
		http.Error(w, "Topic name cannot be empty", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateTopic(userID, topicID, req); err != nil {
		logger.Sugar.Errorf("Handler: Failed to update topic %s: %v", topicID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Topic updated successfully"))
}

func (h *BoardHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topicID := r.URL.Query().Get("topicId")
	if topicID == "" {
		http.Error(w, "Missing topicId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	if err := h.Service.DeleteTopic(userID, topicID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete topic %s: %v", topicID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Topic deleted successfully"))
}

func (h *BoardHandler) AddContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.AddContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TopicID == "" || req.Title == "" {
		http.Error(w, "Topic ID and Title are required", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	contentID, err := h.Service.AddContent(userID, req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to add content to topic %s: %v", req.TopicID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.AddContentResponse{ContentID: contentID})
}

func (h *BoardHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TopicID == "" || req.ContentID == "" {
		http.Error(w, "Topic ID and Content ID are required", http.StatusBadRequest)
		return
	}
	if req.Title != nil && *req.Title == "" {
		http.Error(w, "Content title cannot be empty", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	if err := h.Service.UpdateContent(userID, req); err != nil {
		logger.Sugar.Errorf("Handler: Failed to update content %s: %v", req.ContentID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Content updated successfully"))
}

func (h *BoardHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topicID := r.URL.Query().Get("topicId")
	contentID := r.URL.Query().Get("contentId")
	if topicID == "" || contentID == "" {
		http.Error(w, "Missing topicId or contentId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	if err := h.Service.DeleteContent(userID, topicID, contentID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete content %s: %v", contentID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Content deleted successfully"))
}

func (h *BoardHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r)

	blob, err := h.Service.Export(userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to export board: %v", err)
		http.Error(w, "Failed to export board", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="topics-export.json"`)
	w.Write(blob)
}

func (h *BoardHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil || len(raw) == 0 {
		http.Error(w, "Import payload cannot be empty", http.StatusBadRequest)
		return
	}

	merge := r.URL.Query().Get("mode") == "merge"
	userID := middleware.UserID(r)

	count, err := h.Service.Import(userID, raw, merge)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to import board: %v", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	topics, err := h.Service.ListTopics(userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to reload board after import: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.ImportResponse{Imported: count, Total: len(topics)})
}
