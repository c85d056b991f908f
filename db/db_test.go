package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitrecap/models"
)

// setupTestStore creates a store backed by a sqlmock connection.
func setupTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := &Store{conn: sqlx.NewDb(conn, "sqlmock"), log: zap.NewNop()}

	cleanup := func() {
		_ = store.Close()
	}

	return store, mock, cleanup
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	store, err := Open("", zap.NewNop())

	assert.Nil(t, store)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnsureSchema(t *testing.T) {
	store, mock, cleanup := setupTestStore(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS repositories").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRepository(t *testing.T) {
	info := models.RepoInfo{
		Owner:         "octo",
		Name:          "tools",
		Description:   "Assorted tooling",
		DefaultBranch: "main",
		URL:           "https://github.com/octo/tools",
		Stars:         42,
	}

	tests := []struct {
		name        string
		info        models.RepoInfo
		mockSetup   func(sqlmock.Sqlmock)
		expectedID  int64
		expectedErr error
	}{
		{
			name: "successful upsert",
			info: info,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO repositories").
					WithArgs("octo", "tools", "Assorted tooling", "main", "https://github.com/octo/tools", 42).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			expectedID: 7,
		},
		{
			name:        "empty owner",
			info:        models.RepoInfo{Name: "tools"},
			mockSetup:   func(sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
		{
			name:        "empty name",
			info:        models.RepoInfo{Owner: "octo"},
			mockSetup:   func(sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
		{
			name: "query failure",
			info: info,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO repositories").
					WillReturnError(sql.ErrConnDone)
			},
			expectedErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestStore(t)
			defer cleanup()

			tt.mockSetup(mock)

			id, err := store.UpsertRepository(context.Background(), tt.info)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertCommits(t *testing.T) {
	committed := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	records := []models.CommitRecord{
		{
			Hash:         "abc123",
			Title:        "feat: add export command",
			Category:     models.CategoryFeature,
			AuthorHandle: "dev",
			Timestamp:    &committed,
			URL:          "https://github.com/octo/tools/commit/abc123",
		},
		{
			Hash:     "def456",
			Title:    "imported from svn",
			Category: models.CategoryOther,
		},
	}

	tests := []struct {
		name        string
		repoID      int64
		records     []models.CommitRecord
		mockSetup   func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name:    "successful insert",
			repoID:  7,
			records: records,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO commits")
				mock.ExpectExec("INSERT INTO commits").
					WithArgs("abc123", int64(7), "feat: add export command", "feature",
						"dev", nil, sqlmock.AnyArg(), "https://github.com/octo/tools/commit/abc123").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO commits").
					WithArgs("def456", int64(7), "imported from svn", "other",
						nil, nil, nil, "").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:      "empty records slice",
			repoID:    7,
			records:   nil,
			mockSetup: func(sqlmock.Sqlmock) {},
		},
		{
			name:        "invalid repository id",
			repoID:      0,
			records:     records,
			mockSetup:   func(sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
		{
			name:    "begin failure",
			repoID:  7,
			records: records,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			expectedErr: ErrTransaction,
		},
		{
			name:    "insert failure rolls back",
			repoID:  7,
			records: records,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO commits")
				mock.ExpectExec("INSERT INTO commits").
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			expectedErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestStore(t)
			defer cleanup()

			tt.mockSetup(mock)

			err := store.InsertCommits(context.Background(), tt.repoID, tt.records)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSummary(t *testing.T) {
	first := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 9, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		owner       string
		repo        string
		mockSetup   func(sqlmock.Sqlmock)
		expected    *ArchiveSummary
		expectedErr error
	}{
		{
			name:  "populated archive",
			owner: "octo",
			repo:  "tools",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"total_commits", "unique_authors", "first_commit", "last_commit"}).
					AddRow(12, 3, first, last)
				mock.ExpectQuery("SELECT").
					WithArgs("octo", "tools").
					WillReturnRows(rows)
			},
			expected: &ArchiveSummary{
				TotalCommits:  12,
				UniqueAuthors: 3,
				FirstCommit:   &first,
				LastCommit:    &last,
			},
		},
		{
			name:  "repository without commits",
			owner: "octo",
			repo:  "tools",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"total_commits", "unique_authors", "first_commit", "last_commit"}).
					AddRow(0, 0, nil, nil)
				mock.ExpectQuery("SELECT").
					WithArgs("octo", "tools").
					WillReturnRows(rows)
			},
			expected: &ArchiveSummary{},
		},
		{
			name:  "repository not archived",
			owner: "octo",
			repo:  "missing",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").
					WithArgs("octo", "missing").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: ErrNotFound,
		},
		{
			name:        "empty owner",
			owner:       "",
			repo:        "tools",
			mockSetup:   func(sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestStore(t)
			defer cleanup()

			tt.mockSetup(mock)

			summary, err := store.Summary(context.Background(), tt.owner, tt.repo)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, summary)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
