package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "taskflow.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSlotLoadMissingReturnsNil(t *testing.T) {
	s, _ := openTemp(t)

	data, err := s.Slot("tasks").Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	_, ok, err := s.Slot("tasks").UpdatedAt()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotSaveAndOverwrite(t *testing.T) {
	s, _ := openTemp(t)
	slot := s.Slot("tasks")

	require.NoError(t, slot.Save([]byte(`[{"id":"a"}]`)))
	require.NoError(t, slot.Save([]byte(`[]`)))

	data, err := slot.Load()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	at, ok, err := slot.UpdatedAt()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, at.IsZero())
}

func TestSlotsAreIndependent(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Slot("tasks").Save([]byte("one")))
	require.NoError(t, s.Slot("archive").Save([]byte("two")))

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "tasks"}, names)

	data, err := s.Slot("tasks").Load()
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestEmptySlotNameUsesDefault(t *testing.T) {
	s, _ := openTemp(t)
	assert.Equal(t, DefaultSlot, s.Slot("").Name())
}

func TestSlotSurvivesReopen(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.Slot("tasks").Save([]byte("persisted")))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Slot("tasks").Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}

func TestEnsureSchemaAddsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE slots (name TEXT PRIMARY KEY, data TEXT NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO slots (name, data) VALUES ('tasks', 'old');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Slot("tasks").Load()
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	require.NoError(t, s.Slot("tasks").Save([]byte("new")))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:already", sqliteDSN("file:already"))

	dsn := sqliteDSN("/tmp/x.db")
	assert.Contains(t, dsn, "file:///tmp/x.db")
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "busy_timeout")
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(slots);")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "name", "TEXT", 0, nil, 1).
			AddRow(1, "data", "TEXT", 1, nil, 0).
			AddRow(2, "updated_at", "TEXT", 1, "''", 0))

	s, err := New(db)
	require.NoError(t, err)
	return s, mock
}

func TestSlotSaveSurfacesDatabaseError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slots")).
		WithArgs("tasks", "[]", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	err := s.Slot("tasks").Save([]byte("[]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save slot tasks")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotLoadSurfacesDatabaseError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM slots WHERE name = ?;")).
		WithArgs("tasks").
		WillReturnError(errors.New("database is locked"))

	data, err := s.Slot("tasks").Load()
	require.Error(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshSchemaNeedsNoColumnMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS slots \(.*updated_at TEXT NOT NULL DEFAULT ''.*\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(slots);")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "name", "TEXT", 0, nil, 1).
			AddRow(1, "data", "TEXT", 1, nil, 0).
			AddRow(2, "updated_at", "TEXT", 1, "''", 0))

	_, err = New(db)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no ALTER TABLE is issued")
}

func TestNewFailsWhenSchemaCannotBeCreated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS slots")).
		WillReturnError(errors.New("read-only database"))

	_, err = New(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed")
}

func TestMemorySlotCopiesData(t *testing.T) {
	initial := []byte("abc")
	m := NewMemorySlot(initial)
	initial[0] = 'x'

	data, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[0] = 'y'
	again, _ := m.Load()
	assert.Equal(t, "abc", string(again))

	empty := NewMemorySlot(nil)
	data, err = empty.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}
