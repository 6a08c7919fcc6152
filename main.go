package main

import (
	"net/http"

	"topicdesk/config"
	"topicdesk/config/database"
	boardRepository "topicdesk/internal/board/repository"
	"topicdesk/pkg/logger"
	"topicdesk/router"
	"topicdesk/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel)

	db := database.Connect(cfg)
	defer db.Close()

	// The hub fans board changes out to a user's other open tabs and
	// flushes client-pushed boards back to the database.
	hub := socket.NewHub(boardRepository.NewBoardRepository(db))
	go hub.Run()
	go hub.SaveWorker(cfg.SaveInterval)

	handler := router.Setup(cfg, db, hub)

	logger.Sugar.Infof("topicdesk listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
