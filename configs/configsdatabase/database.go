package configsdatabase

import (
	"fmt"
	"os"
	"time"

	"formum.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB GORM üzerinden PostgreSQL bağlantısını kurar ve havuz ayarlarını yapar.
// DSN, DATABASE_DSN ortam değişkeninden okunur.
func InitDB() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=formum password=formum dbname=formum port=5432 sslmode=disable TimeZone=UTC"
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	conn, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantısı kurulamadı", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("sql.DB örneği alınamadı", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = conn
	configslog.SLog.Info("Veritabanı bağlantısı başarıyla kuruldu.")
}

// GetDB başlatılmış *gorm.DB örneğini döndürür.
func GetDB() *gorm.DB {
	if db == nil {
		panic(fmt.Errorf("veritabanı başlatılmadı: önce configsdatabase.InitDB çağrılmalı"))
	}
	return db
}

// SetDB test ortamında sahte/sqlmock destekli bir bağlantı atamak için kullanılır.
func SetDB(conn *gorm.DB) {
	db = conn
}

// CloseDB altta yatan sql.DB bağlantısını kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Bağlantı kapatılırken sql.DB alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı.")
}
