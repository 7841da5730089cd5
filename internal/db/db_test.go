package db

import (
	"errors"
	"testing"

	"storefront-be/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityStoreConfig(name string) *config.Config {
	return &config.Config{
		DBHost:     "localhost",
		DBUser:     "storefront",
		DBPassword: "secret",
		DBName:     name,
		DBPort:     "5432",
	}
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost user=storefront password=secret dbname=storefront port=5432 sslmode=disable",
		buildDSN(entityStoreConfig("storefront")),
	)
}

func TestNewDatabase(t *testing.T) {
	t.Run("PingsAndSizesPool", func(t *testing.T) {
		cfg := entityStoreConfig("storefront_ok")
		_, mock, err := sqlmock.NewWithDSN(buildDSN(cfg), sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing()

		database, err := newDatabaseWithDriver(cfg, "sqlmock")
		require.NoError(t, err)
		require.NotNil(t, database)

		assert.Equal(t, maxOpenConns, database.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PingFailure", func(t *testing.T) {
		cfg := entityStoreConfig("storefront_down")
		_, mock, err := sqlmock.NewWithDSN(buildDSN(cfg), sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)

		refused := errors.New("connection refused")
		mock.ExpectPing().WillReturnError(refused)

		database, err := newDatabaseWithDriver(cfg, "sqlmock")
		assert.Nil(t, database)
		require.Error(t, err)
		assert.ErrorIs(t, err, refused)
		assert.Contains(t, err.Error(), "failed to ping DB")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		database, err := newDatabaseWithDriver(entityStoreConfig("storefront"), "not_a_driver")
		assert.Nil(t, database)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to DB")
	})
}
