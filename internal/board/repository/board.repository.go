package repository

import (
	"database/sql"
	"errors"

	"topicdesk/pkg/logger"
)

// BoardKey is the single well-known key a user's topic list lives under,
// mirroring the localStorage key the browser app used.
const BoardKey = "topics"

var ErrNotFound = errors.New("board blob not found")

// BoardRepository persists each user's board as one JSON blob in a
// string-keyed table. Every write is a whole-document overwrite; there are
// no partial updates and no transactions.
type BoardRepository struct {
	DB *sql.DB
}

func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{DB: db}
}

func (r *BoardRepository) Load(userID, key string) ([]byte, error) {
	var value []byte
	err := r.DB.QueryRow("SELECT value FROM board_blobs WHERE user_id = $1 AND key = $2", userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to load board blob %s for user %s: %v", key, userID, err)
		return nil, err
	}
	return value, nil
}

func (r *BoardRepository) Save(userID, key string, blob []byte) error {
	// lib/pq wants a string for JSONB parameters, not []byte.
	_, err := r.DB.Exec(`INSERT INTO board_blobs (user_id, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET value = $3, updated_at = NOW()`, userID, key, string(blob))
	if err != nil {
		logger.Sugar.Errorf("Failed to save board blob %s for user %s: %v", key, userID, err)
	}
	return err
}

func (r *BoardRepository) Delete(userID, key string) error {
	_, err := r.DB.Exec("DELETE FROM board_blobs WHERE user_id = $1 AND key = $2", userID, key)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete board blob %s for user %s: %v", key, userID, err)
	}
	return err
}

// LoadBlob and SaveBlob satisfy the hub's BoardStore against the default key.

func (r *BoardRepository) LoadBlob(userID string) ([]byte, error) {
	return r.Load(userID, BoardKey)
}

func (r *BoardRepository) SaveBlob(userID string, blob []byte) error {
	return r.Save(userID, BoardKey, blob)
}
