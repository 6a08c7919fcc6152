package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boardRepository "topicdesk/internal/board/repository"
	"topicdesk/internal/draft/model"
	"topicdesk/internal/draft/repository"
	"topicdesk/internal/draft/service"
	"topicdesk/middleware"
	"topicdesk/socket"
)

func newHandler(t *testing.T) (*DraftHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := socket.NewHub(boardRepository.NewBoardRepository(db))
	go hub.Run()

	return NewDraftHandler(service.NewDraftService(repository.NewDraftRepository(db), hub)), mock
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user1")
	return req.WithContext(ctx)
}

func TestCreateDraftResponds(t *testing.T) {
	h, mock := newHandler(t)

	mock.ExpectExec("INSERT INTO drafts").
		WithArgs(sqlmock.AnyArg(), "user1", "Weekly notes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	h.CreateDraft(rec, authedRequest(http.MethodPost, "/api/drafts/create", `{"title":"Weekly notes"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.CreateDraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.DraftID)
}

func TestSaveDraftRequiresID(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.SaveDraft(rec, authedRequest(http.MethodPost, "/api/drafts/save", `{"html":"<p>x</p>"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveDraftNotFound(t *testing.T) {
	h, mock := newHandler(t)

	mock.ExpectExec("UPDATE drafts SET html").
		WithArgs("<p>x</p>", "missing", "user1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := httptest.NewRecorder()
	h.SaveDraft(rec, authedRequest(http.MethodPost, "/api/drafts/save", `{"draft_id":"missing","html":"<p>x</p>"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameDraftRequiresTitle(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.RenameDraft(rec, authedRequest(http.MethodPut, "/api/drafts/update?draftId=d1", `{"title":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDraftMissingParam(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.DeleteDraft(rec, authedRequest(http.MethodDelete, "/api/drafts/delete", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
