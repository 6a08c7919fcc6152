package router

import (
	"database/sql"
	"net/http"

	"topicdesk/config"
	boardHandler "topicdesk/internal/board"
	boardRepository "topicdesk/internal/board/repository"
	boardService "topicdesk/internal/board/service"
	draftHandler "topicdesk/internal/draft"
	draftRepository "topicdesk/internal/draft/repository"
	draftService "topicdesk/internal/draft/service"
	"topicdesk/middleware"
	"topicdesk/socket"
)

func Setup(cfg *config.Config, db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.Auth(cfg.JWTSecret)

	// WebSocket
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r, middleware.UserID(r))
	})
	mux.Handle("/ws", auth(wsHandler))

	// REST API
	boardRepo := boardRepository.NewBoardRepository(db)
	boardSvc := boardService.NewBoardService(boardRepo, hub)
	board := boardHandler.NewBoardHandler(boardSvc)

	draftRepo := draftRepository.NewDraftRepository(db)
	draftSvc := draftService.NewDraftService(draftRepo, hub)
	draft := draftHandler.NewDraftHandler(draftSvc)

	mux.Handle("/api/topics/create", auth(http.HandlerFunc(board.CreateTopic)))
	mux.Handle("/api/topics", auth(http.HandlerFunc(board.ListTopics)))
	mux.Handle("/api/topics/get", auth(http.HandlerFunc(board.GetTopic)))
	mux.Handle("/api/topics/update", auth(http.HandlerFunc(board.UpdateTopic)))
	mux.Handle("/api/topics/delete", auth(http.HandlerFunc(board.DeleteTopic)))
	mux.Handle("/api/topics/contents/add", auth(http.HandlerFunc(board.AddContent)))
	mux.Handle("/api/topics/contents/update", auth(http.HandlerFunc(board.UpdateContent)))
	mux.Handle("/api/topics/contents/delete", auth(http.HandlerFunc(board.DeleteContent)))
	mux.Handle("/api/board/export", auth(http.HandlerFunc(board.Export)))
	mux.Handle("/api/board/import", auth(http.HandlerFunc(board.Import)))

	mux.Handle("/api/drafts/create", auth(http.HandlerFunc(draft.CreateDraft)))
	mux.Handle("/api/drafts", auth(http.HandlerFunc(draft.ListDrafts)))
	mux.Handle("/api/drafts/get", auth(http.HandlerFunc(draft.GetDraft)))
	mux.Handle("/api/drafts/save", auth(http.HandlerFunc(draft.SaveDraft)))
	mux.Handle("/api/drafts/update", auth(http.HandlerFunc(draft.RenameDraft)))
	mux.Handle("/api/drafts/delete", auth(http.HandlerFunc(draft.DeleteDraft)))

	return middleware.CORSMiddleware(mux)
}
