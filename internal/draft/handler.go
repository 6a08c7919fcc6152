package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"topicdesk/internal/draft/model"
	"topicdesk/internal/draft/service"
	"topicdesk/middleware"
	"topicdesk/pkg/logger"
)

type DraftHandler struct {
	Service *service.DraftService
}

func NewDraftHandler(service *service.DraftService) *DraftHandler {
	return &DraftHandler{Service: service}
}

func statusFor(err error) int {
	if errors.Is(err, service.ErrDraftNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r)

	var req model.CreateDraftRequest
	_ = json.NewDecoder(r.Body).Decode(&req) // Ignore error, default to empty

	draftID, err := h.Service.Create(userID, req.Title)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create draft: %v", err)
		http.Error(w, "Failed to create draft: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.CreateDraftResponse{DraftID: draftID})
}

func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r)

	drafts, err := h.Service.List(userID)
	if err != nil {
		logger.Sugar.Errorf("Error fetching drafts: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(drafts)
}

func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	draftID := r.URL.Query().Get("draftId")
	if draftID == "" {
		http.Error(w, "Missing draftId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	draft, err := h.Service.Get(userID, draftID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to get draft %s: %v", draftID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DraftID == "" {
		http.Error(w, "Missing draft_id", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	if err := h.Service.SaveHTML(userID, req); err != nil {
		logger.Sugar.Errorf("Error saving draft: %v", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Draft saved successfully"))
}

func (h *DraftHandler) RenameDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	draftID := r.URL.Query().Get("draftId")
	if draftID == "" {
		http.Error(w, "Missing draftId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	var req model.RenameDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Rename(userID, draftID, req.Title); err != nil {
		logger.Sugar.Errorf("Handler: Failed to rename draft %s: %v", draftID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Draft updated successfully"))
}

func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	draftID := r.URL.Query().Get("draftId")
	if draftID == "" {
		http.Error(w, "Missing draftId parameter", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)

	if err := h.Service.Delete(userID, draftID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete draft %s: %v", draftID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Draft deleted successfully"))
}
