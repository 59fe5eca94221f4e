package database_test

import (
	"context"
	"testing"

	"github.com/Behyna/streamstore/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConnection_SQLiteMemory(t *testing.T) {
	db, err := database.NewConnection(context.Background(),
		database.Config{Driver: database.DriverSQLite, Path: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := database.NewConnection(context.Background(), database.Config{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn := database.MySQLDSN(database.Config{
		Host: "localhost", Port: "3306", User: "shop", Password: "secret", Name: "streamstore",
	})

	assert.Contains(t, dsn, "shop:secret@tcp(localhost:3306)/streamstore")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", database.SQLiteDSN(":memory:"))
	assert.Contains(t, database.SQLiteDSN(""), "file:streamstore.db?")
}
