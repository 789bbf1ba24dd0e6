package store

import (
	"context"
	"os"
	"testing"
	"time"

	"card-shoggoths-server/pkg/db"

	"github.com/stretchr/testify/assert"
)

func testStore(t *testing.T, s Store) {
	a := assert.New(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	a.Equal(ErrNotFound, err)

	created := time.UnixMilli(1700000000000)
	a.NoError(s.Save(ctx, &Session{
		ID:        "abc",
		Data:      []byte(`{"phase":"ante"}`),
		CreatedAt: created,
		UpdatedAt: created,
	}))

	loaded, err := s.Load(ctx, "abc")
	a.NoError(err)
	a.Equal("abc", loaded.ID)
	a.JSONEq(`{"phase":"ante"}`, string(loaded.Data))
	a.True(created.Equal(loaded.UpdatedAt))

	updated := created.Add(time.Minute)
	a.NoError(s.Save(ctx, &Session{
		ID:        "abc",
		Data:      []byte(`{"phase":"bet_pre"}`),
		CreatedAt: updated,
		UpdatedAt: updated,
	}))

	loaded, err = s.Load(ctx, "abc")
	a.NoError(err)
	a.JSONEq(`{"phase":"bet_pre"}`, string(loaded.Data))
	a.True(created.Equal(loaded.CreatedAt), "created at is kept")
	a.True(updated.Equal(loaded.UpdatedAt))

	a.NoError(s.Save(ctx, &Session{
		ID:        "def",
		Data:      []byte(`{}`),
		CreatedAt: created,
		UpdatedAt: created,
	}))

	list, err := s.List(ctx)
	a.NoError(err)
	if a.Len(list, 2) {
		a.Equal("abc", list[0].ID)
		a.Equal("def", list[1].ID)
		a.Nil(list[0].Data)
	}

	n, err := s.DeleteExpired(ctx, created.Add(time.Second))
	a.NoError(err)
	a.Equal(int64(1), n)

	_, err = s.Load(ctx, "def")
	a.Equal(ErrNotFound, err)

	a.NoError(s.Delete(ctx, "abc"))
	a.Equal(ErrNotFound, s.Delete(ctx, "abc"))
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	testStore(t, s)
}

func TestSQLite(t *testing.T) {
	s, err := Open(context.Background(), db.DriverSQLite, ":memory:", "")
	if !assert.NoError(t, err) {
		return
	}
	defer s.Close()

	testStore(t, s)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SHOGGOTH_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("SHOGGOTH_TEST_PG_DSN is not set")
	}

	s, err := Open(context.Background(), db.DriverPostgres, dsn, "../../sql")
	if !assert.NoError(t, err) {
		return
	}
	defer s.Close()

	ctx := context.Background()
	_ = s.Delete(ctx, "abc")
	_ = s.Delete(ctx, "def")
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	a := assert.New(t)

	s, err := Open(context.Background(), "", "", "")
	a.NoError(err)
	a.IsType(&Memory{}, s)

	_, err = Open(context.Background(), "mysql", "dsn", "")
	a.EqualError(err, "unsupported store driver: mysql")

	_, err = Open(context.Background(), db.DriverSQLite, " ", "")
	a.EqualError(err, "empty sqlite dsn")
}

func TestSQL_rebind(t *testing.T) {
	a := assert.New(t)

	a.Equal("SELECT ? WHERE ?", NewSQL(nil, db.DriverSQLite).rebind("SELECT ? WHERE ?"))
	a.Equal("SELECT $1 WHERE $2", NewSQL(nil, db.DriverPostgres).rebind("SELECT ? WHERE ?"))
}
