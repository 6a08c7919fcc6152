package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*DraftRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDraftRepository(db), mock
}

func TestCreateDraftRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO drafts").
		WithArgs("d1", "user1", "My Draft").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create("d1", "user1", "My Draft"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScopedToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("SELECT id, owner_id, title, html, created_at, updated_at FROM drafts WHERE id = \\$1 AND owner_id = \\$2").
		WithArgs("d1", "user1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "html", "created_at", "updated_at"}).
			AddRow("d1", "user1", "My Draft", "<p>hello</p>", now, now))

	draft, err := repo.GetByID("d1", "user1")
	require.NoError(t, err)
	assert.Equal(t, "My Draft", draft.Title)
	assert.Equal(t, "<p>hello</p>", draft.HTML)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerOrdering(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("SELECT id, owner_id, title, html, created_at, updated_at FROM drafts WHERE owner_id = \\$1 ORDER BY updated_at DESC").
		WithArgs("user1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "html", "created_at", "updated_at"}).
			AddRow("d2", "user1", "Newer", "", now, now).
			AddRow("d1", "user1", "Older", "", now.Add(-time.Hour), now.Add(-time.Hour)))

	drafts, err := repo.ListByOwner("user1")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Newer", drafts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerRowError(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "html", "created_at", "updated_at"}).
		AddRow("d1", "user1", "Fine", "", now, now).
		AddRow("d2", "user1", "Broken", "", now, now).
		RowError(1, errors.New("connection reset"))
	mock.ExpectQuery("SELECT id, owner_id, title, html, created_at, updated_at FROM drafts WHERE owner_id = \\$1").
		WithArgs("user1").
		WillReturnRows(rows)

	drafts, err := repo.ListByOwner("user1")
	assert.Error(t, err, "a mid-iteration failure must surface, not silently shorten the list")
	assert.Nil(t, drafts)
}

func TestSaveHTMLRowsAffected(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE drafts SET html = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2 AND owner_id = \\$3").
		WithArgs("<p>v2</p>", "d1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.SaveHTML("d1", "someone-else", "<p>v2</p>")
	require.NoError(t, err)
	assert.Zero(t, rows, "writes by non-owners must not match any row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDraftRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM drafts WHERE id = \\$1 AND owner_id = \\$2").
		WithArgs("d1", "user1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.Delete("d1", "user1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
