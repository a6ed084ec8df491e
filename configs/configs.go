package configs

import (
	"os"
	"strconv"
	"time"

	"formum.link/configs/configsdatabase"
	"formum.link/configs/configslog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// LoadEnv .env dosyasını yükler. Dosya yoksa sessizce devam edilir;
// production ortamında değişkenler zaten dışarıdan verilir.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug(".env dosyası bulunamadı, mevcut ortam değişkenleri kullanılıyor.")
	}
}

// GetDB servis ve repository katmanlarının kullandığı global DB erişimcisi.
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}

// GetPort HTTP sunucusunun dinleyeceği portu döndürür.
func GetPort() string {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}
	return ":" + port
}

// GetEnv bir ortam değişkenini, yoksa verilen varsayılan değeri döndürür.
func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// GetIdentityServiceURL platform kimlik sağlayıcısının taban URL'ini döndürür.
func GetIdentityServiceURL() string {
	return GetEnv("IDENTITY_SERVICE_URL", "https://api.whop.com")
}

// GetIdentityAPIKey kimlik sağlayıcısına yapılan çağrılarda kullanılan API anahtarı.
func GetIdentityAPIKey() string {
	return os.Getenv("IDENTITY_API_KEY")
}

// GetIdentityTimeout kimlik sağlayıcısı çağrıları için zaman aşımını döndürür.
// IDENTITY_TIMEOUT_SECONDS tanımlı değilse 5 saniye kullanılır.
func GetIdentityTimeout() time.Duration {
	raw := os.Getenv("IDENTITY_TIMEOUT_SECONDS")
	if raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 5 * time.Second
}
