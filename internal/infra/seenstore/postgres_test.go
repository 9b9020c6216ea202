package seenstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"blog-notifier/internal/usecase/seen"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	backend := NewPostgresBackend(conn, "")
	backend.retryConfig = fastRetry()
	return backend, mock
}

func TestPostgresBackend_Get(t *testing.T) {
	backend, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
		WithArgs(DefaultDocumentID).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(sampleDocument)))

	got, err := backend.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_GetNoRow(t *testing.T) {
	backend, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
		WithArgs(DefaultDocumentID).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := backend.Get(context.Background())
	assert.ErrorIs(t, err, seen.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_GetQueryError(t *testing.T) {
	backend, mock := newMockPostgres(t)
	queryErr := errors.New("relation \"seen_documents\" does not exist")

	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
		WithArgs(DefaultDocumentID).
		WillReturnError(queryErr)

	_, err := backend.Get(context.Background())
	assert.ErrorIs(t, err, queryErr)
	assert.NotErrorIs(t, err, seen.ErrDocumentNotFound)
}

func TestPostgresBackend_Put(t *testing.T) {
	backend, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertDocumentSQL)).
		WithArgs(DefaultDocumentID, []byte(sampleDocument)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Put(context.Background(), []byte(sampleDocument)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_PutError(t *testing.T) {
	backend, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertDocumentSQL)).
		WillReturnError(errors.New("read-only transaction"))

	err := backend.Put(context.Background(), []byte(sampleDocument))
	assert.ErrorContains(t, err, `upsert seen document "default"`)
}
