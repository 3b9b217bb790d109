package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"Jaffer/backend/go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfigs{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "memory.db")},
	})
	require.NoError(t, err)
	defer Close(db)

	assert.NoError(t, HealthCheck(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(config.DatabaseConfigs{Driver: "postgres"})
	assert.Error(t, err)

	_, err = Open(config.DatabaseConfigs{Driver: "sqlite"})
	assert.Error(t, err, "missing path")

	assert.Error(t, HealthCheck(context.Background(), nil))
	assert.NoError(t, Close(nil))
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.MySQLConfig{Username: "u", Password: "p", Address: "db:3306", Database: "jaffer"})
	assert.Equal(t, "u:p@tcp(db:3306)/jaffer?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}
