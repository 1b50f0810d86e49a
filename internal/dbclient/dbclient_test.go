package dbclient_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/chinazagideon/mock-generator/internal/dbclient"
	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/record"
)

func dataset() record.Dataset {
	return record.Dataset{
		record.New("id", 1, "name", `Acme, "Inc."`, "amount", 10.5, "active", true, "status", record.New("name", "pending")),
		record.New("id", 2, "name", "Globex", "amount", 20.0, "active", false, "status", record.New("name", "failed")),
	}
}

func TestSQLiteWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sink", "mock.db")
	conn, err := dbclient.NewConnector(ctx, &domain.SinkConnection{Driver: domain.SinkDriverSQLite, Host: path}, "")
	require.NoError(t, err)

	require.NoError(t, conn.TestConnection(ctx))

	n, err := conn.Write(ctx, "merchants", dataset(), etl.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = conn.Write(ctx, "merchants", dataset(), etl.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	info, err := conn.Introspect(ctx)
	require.NoError(t, err)
	require.Len(t, info.Tables, 1)
	assert.Equal(t, "merchants", info.Tables[0].Name)
	assert.Len(t, info.Tables[0].Columns, 5)

	n, err = conn.Write(ctx, "merchants", dataset()[:1], etl.WriteReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, conn.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM merchants`).Scan(&count))
	assert.Equal(t, 1, count)

	var name, status string
	require.NoError(t, db.QueryRow(`SELECT name, status FROM merchants`).Scan(&name, &status))
	assert.Equal(t, `Acme, "Inc."`, name)
	assert.Equal(t, `{"name":"pending"}`, status)
}

func TestBoltWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mock.bolt")
	conn, err := dbclient.NewConnector(ctx, &domain.SinkConnection{Driver: domain.SinkDriverBolt, Host: path}, "")
	require.NoError(t, err)

	_, err = conn.Write(ctx, "merchants", dataset(), etl.WriteAppend)
	require.NoError(t, err)
	_, err = conn.Write(ctx, "merchants", dataset(), etl.WriteAppend)
	require.NoError(t, err)

	info, err := conn.Introspect(ctx)
	require.NoError(t, err)
	require.Len(t, info.Tables, 1)
	assert.Equal(t, []string{"id", "name", "amount", "active", "status"}, columnNames(info.Tables[0]))

	_, err = conn.Write(ctx, "merchants", dataset()[1:], etl.WriteReplace)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	db, err := bbolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket([]byte("merchants"))
		require.NotNil(t, bk)
		assert.Equal(t, 1, bk.Stats().KeyN)
		v := bk.Get(dbclient.BoltKey(1))
		require.NotNil(t, v)
		rec, err := record.Parse(v)
		require.NoError(t, err)
		name, _ := rec.Get("name")
		assert.Equal(t, "Globex", name)
		return nil
	}))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := dbclient.NewConnector(context.Background(), &domain.SinkConnection{Driver: "oracle"}, "")
	assert.Error(t, err)
}

func TestFileDriversNeedPath(t *testing.T) {
	for _, d := range []domain.SinkDriver{domain.SinkDriverSQLite, domain.SinkDriverBolt} {
		_, err := dbclient.NewConnector(context.Background(), &domain.SinkConnection{Driver: d}, "")
		assert.Error(t, err, d)
	}
}

func columnNames(t dbclient.TableInfo) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
