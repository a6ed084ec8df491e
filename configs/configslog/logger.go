package configslog

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapılandırılmış (structured) loglama için global zap logger.
// SLog ise printf tarzı kullanım için sugared logger.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// InitLogger APP_ENV değerine göre zap logger'ı başlatır.
// "production" ortamında JSON formatında, diğer ortamlarda
// okunabilir (console) formatta log üretir.
func InitLogger() {
	env := os.Getenv("APP_ENV")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		log.Fatalf("zap logger başlatılamadı: %v", err)
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger logger buffer'larını flush eder. main içinde defer ile çağrılır.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
