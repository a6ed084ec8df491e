package main

import (
	"flag"

	"formum.link/configs"
	"formum.link/configs/configsdatabase"
	"formum.link/configs/configslog"
	"formum.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	flag.Parse()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	database.Initialize(db, *migrateFlag)

	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
