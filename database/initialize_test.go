package database

import (
	"os"
	"testing"

	"formum.link/configs/configslog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.Log = zap.NewNop()
	configslog.SLog = configslog.Log.Sugar()
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestInitializeRollsBackOnMigrationFailure(t *testing.T) {
	db, mock := newMockDB(t)

	// Migrasyon sorguları için beklenti tanımlanmadığından ilk migrasyon
	// hata verir; başlatma işlemi transaction'ı geri almalıdır.
	mock.ExpectBegin()
	mock.ExpectRollback()

	Initialize(db, true)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeSkipsWithoutMigrateFlag(t *testing.T) {
	db, mock := newMockDB(t)

	Initialize(db, false)

	assert.NoError(t, mock.ExpectationsWereMet())
}
