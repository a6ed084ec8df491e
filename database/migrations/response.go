package migrations

import (
	"formum.link/configs/configslog"
	"formum.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateResponsesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating form_responses & form_response_data tables...")
	err := db.AutoMigrate(&models.FormResponse{}, &models.FormResponseData{})
	if err != nil {
		configslog.Log.Error("Failed to migrate form_responses & form_response_data tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Form_responses & form_response_data tables migrated successfully")
	return nil
}
