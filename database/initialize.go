package database

import (
	"formum.link/configs/configslog"
	"formum.link/database/migrations"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool) {
	if !migrate {
		configslog.SLog.Info("Migrate bayrağı belirtilmedi, işlem yapılmayacak.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Veritabanı transaction başlatılamadı", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Veritabanı başlatma işlemi başarısız oldu (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warnf("Başlatma sırasında hata oluştuğu için işlem geri alınıyor: %v", err)
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback sırasında ek hata oluştu", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Veritabanı başlatma işlemi başlıyor...")

	configslog.SLog.Info("Migrasyonlar çalıştırılıyor...")
	if err := RunMigrationsInOrder(tx); err != nil {
		// tx.Error set edilmezse deferred rollback devreye girmez.
		tx.Error = err
		configslog.Log.Error("Migrasyon başarısız oldu", zap.Error(err))
		return
	}
	configslog.SLog.Info("Migrasyonlar tamamlandı.")

	configslog.SLog.Info("İşlem commit ediliyor...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit başarısız oldu", zap.Error(err))
		return
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi başarıyla tamamlandı")
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Migrasyonlar sırayla çalıştırılıyor...")

	configslog.SLog.Info(" -> Form migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateFormsTables(db); err != nil {
		configslog.Log.Error("Forms tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Form migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> Response migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateResponsesTables(db); err != nil {
		configslog.Log.Error("Responses tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Response migrasyonları tamamlandı.")

	configslog.SLog.Info("Tüm migrasyonlar başarıyla çalıştırıldı.")
	return nil
}
