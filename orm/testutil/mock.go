package testutil

import (
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/orm/config"
	"github.com/solcore-labs/corecollection/types"
)

var testConfig = &config.Config{
	DSN:       "mock",
	MaxConns:  1,
	IdleConns: 1,
	BatchSize: 100,
}

// NewMockDB returns a postgres-dialect database backed by sqlmock.
func NewMockDB(l *slog.Logger) (*orm.Database, sqlmock.Sqlmock, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormcfg := &gorm.Config{
		NamingStrategy:  schema.NamingStrategy{SingularTable: true},
		PrepareStmt:     false,
		CreateBatchSize: testConfig.BatchSize,
		Logger:          logger.Discard,
	}

	instance, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), gormcfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := orm.NewDatabase(instance, testConfig, slogger(l))
	if err != nil {
		return nil, nil, err
	}
	return db, mock, nil
}

// NewSQLiteDB opens an in-memory sqlite database with every table migrated.
func NewSQLiteDB(t *testing.T) *orm.Database {
	t.Helper()

	instance, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps the in-memory database alive for the whole test
	sqlDB, err := instance.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, instance.AutoMigrate(types.AllModels()...))

	db, err := orm.NewDatabase(instance, testConfig, slog.Default())
	require.NoError(t, err)
	return db
}

func slogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
