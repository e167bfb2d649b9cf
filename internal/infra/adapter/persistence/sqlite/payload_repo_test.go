package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/adapter/persistence/sqlite"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/db"
)

func payloadRows(docs ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"payload"})
	for _, d := range docs {
		rows.AddRow([]byte(d))
	}
	return rows
}

func TestPayloadRepo_Get(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs("/folder", "5").
		WillReturnRows(payloadRows(`{"id":5,"name":"Docs","uri":"/docs"}`))

	repo := sqlite.NewPayloadRepo(sqlDB)
	got, err := repo.Get(context.Background(), "/folder", model.IntID(5))
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}

	want := model.Payload{"id": json.Number("5"), "name": "Docs", "uri": "/docs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPayloadRepo_Get_Missing(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs("/folder", "abc").
		WillReturnRows(payloadRows())

	got, err := sqlite.NewPayloadRepo(sqlDB).Get(context.Background(), "/folder", model.StringID("abc"))

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPayloadRepo_Get_CorruptPayload(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WillReturnRows(payloadRows(`[1,2]`))

	_, err := sqlite.NewPayloadRepo(sqlDB).Get(context.Background(), "/folder", model.IntID(1))

	assert.Error(t, err)
}

func TestPayloadRepo_Put_ExplicitID(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payloads")).
		WithArgs("/folder", "5", int64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := sqlite.NewPayloadRepo(sqlDB).Put(context.Background(), "/folder", model.IntID(5), model.Payload{"id": int64(5)})

	require.NoError(t, err)
	assert.Equal(t, model.IntID(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadRepo_Put_StringIDHasNoNumID(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payloads")).
		WithArgs("/notification", "7f1c", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := sqlite.NewPayloadRepo(sqlDB).Put(context.Background(), "/notification", model.StringID("7f1c"), model.Payload{})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadRepo_Put_AssignsNextID(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payloads")).
		WithArgs("/folder", sqlmock.AnyArg(), sqlmock.AnyArg(), "/folder").
		WillReturnRows(sqlmock.NewRows([]string{"num_id"}).AddRow(int64(8)))

	id, err := sqlite.NewPayloadRepo(sqlDB).Put(context.Background(), "/folder", model.ID{}, model.Payload{"name": "New"})

	require.NoError(t, err)
	assert.Equal(t, model.IntID(8), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadRepo_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		notFound bool
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, _ := sqlmock.New()
			defer func() { _ = sqlDB.Close() }()

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM payloads")).
				WithArgs("/tag", "3").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := sqlite.NewPayloadRepo(sqlDB).Delete(context.Background(), "/tag", model.IntID(3))

			if tt.notFound {
				assert.True(t, errors.Is(err, entity.ErrNotFound))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPayloadRepo_ListAndCount(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs("/tag", 2, 0).
		WillReturnRows(payloadRows(`{"id":1,"name":"a"}`, `{"id":2,"name":"b"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("/tag").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	repo := sqlite.NewPayloadRepo(sqlDB)
	got, err := repo.List(context.Background(), "/tag", 0, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1]["name"])

	n, err := repo.Count(context.Background(), "/tag")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadRepo_QueryError(t *testing.T) {
	sqlDB, mock, _ := sqlmock.New()
	defer func() { _ = sqlDB.Close() }()

	dbErr := errors.New("database is locked")
	mock.ExpectQuery("SELECT payload").WillReturnError(dbErr)

	_, err := sqlite.NewPayloadRepo(sqlDB).List(context.Background(), "/tag", 0, 10)

	assert.ErrorIs(t, err, dbErr)
}

// TestPayloadRepo_SQLite runs the statements against a real database file.
func TestPayloadRepo_SQLite(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "store.db"), db.DefaultConnectionConfig())
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()
	require.NoError(t, db.MigrateUp(ctx, sqlDB, db.DriverSQLite))

	repo := sqlite.NewPayloadRepo(sqlDB)

	docs := entity.NewFolder().Init(map[string]any{"name": "Docs", "uri": "/docs"})
	id, err := repo.Put(ctx, "/folder", docs.ID, docs.PrepareToSave())
	require.NoError(t, err)
	assert.Equal(t, model.IntID(1), id)

	id2, err := repo.Put(ctx, "/folder", model.ID{}, model.Payload{"name": "Second"})
	require.NoError(t, err)
	assert.Equal(t, model.IntID(2), id2)

	stored, err := repo.Get(ctx, "/folder", id)
	require.NoError(t, err)
	again := entity.NewFolder().Init(stored)
	assert.Equal(t, model.IntID(1), again.ID)
	assert.Equal(t, "Docs", again.Name)

	again.Name = "Renamed"
	_, err = repo.Put(ctx, "/folder", again.ID, again.PrepareToSave())
	require.NoError(t, err)

	n, err := repo.Count(ctx, "/folder")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	page, err := repo.List(ctx, "/folder", 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Renamed", page[0]["name"])

	require.NoError(t, repo.Delete(ctx, "/folder", id))
	assert.ErrorIs(t, repo.Delete(ctx, "/folder", id), entity.ErrNotFound)
}
