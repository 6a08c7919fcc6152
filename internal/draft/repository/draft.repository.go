package repository

import (
	"database/sql"
	"errors"

	"topicdesk/pkg/logger"
	"topicdesk/store"
)

var ErrNotFound = errors.New("draft not found")

type DraftRepository struct {
	DB *sql.DB
}

func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{DB: db}
}

func (r *DraftRepository) Create(id, ownerID, title string) error {
	_, err := r.DB.Exec(`INSERT INTO drafts (id, owner_id, title, html, created_at, updated_at) VALUES ($1, $2, $3, '', NOW(), NOW())`,
		id, ownerID, title)
	if err != nil {
		logger.Sugar.Errorf("Failed to create draft: %v", err)
	}
	return err
}

func (r *DraftRepository) GetByID(id, ownerID string) (*store.Draft, error) {
	var d store.Draft
	err := r.DB.QueryRow(`SELECT id, owner_id, title, html, created_at, updated_at FROM drafts WHERE id = $1 AND owner_id = $2`, id, ownerID).
		Scan(&d.ID, &d.OwnerID, &d.Title, &d.HTML, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get draft %s: %v", id, err)
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepository) ListByOwner(ownerID string) ([]store.Draft, error) {
	rows, err := r.DB.Query(`SELECT id, owner_id, title, html, created_at, updated_at FROM drafts WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list drafts for user %s: %v", ownerID, err)
		return nil, err
	}
	defer rows.Close()

	var drafts []store.Draft
	for rows.Next() {
		var d store.Draft
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Title, &d.HTML, &d.CreatedAt, &d.UpdatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan draft row for user %s: %v", ownerID, err)
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to iterate drafts for user %s: %v", ownerID, err)
		return nil, err
	}
	return drafts, nil
}

// SaveHTML overwrites the whole body. Ownership is enforced in the WHERE
// clause; zero rows affected means not found or not the owner.
func (r *DraftRepository) SaveHTML(id, ownerID, html string) (int64, error) {
	result, err := r.DB.Exec(`UPDATE drafts SET html = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3`, html, id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to save draft %s: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *DraftRepository) Rename(id, ownerID, title string) (int64, error) {
	result, err := r.DB.Exec(`UPDATE drafts SET title = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3`, title, id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to rename draft %s: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *DraftRepository) Delete(id, ownerID string) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM drafts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete draft %s: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}
