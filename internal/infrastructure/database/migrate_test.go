package database

import (
	"io/fs"
	"testing"

	"medical-appointments/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestMigrationURL(t *testing.T) {
	url := MigrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "postgres",
		Password: "p@ss word",
		Name:     "citas_medicas",
		SSLMode:  "disable",
	})
	assert.Equal(t, "pgx5://postgres:p%40ss%20word@db:5432/citas_medicas?sslmode=disable", url)
}

func TestMigrationFilesArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, logLevel("development"))
	assert.Equal(t, logger.Error, logLevel("production"))
}
