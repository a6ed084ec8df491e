package repositories

import (
	"context"
	"errors"

	"formum.link/configs"
	"formum.link/configs/configslog"
	"formum.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IFormFieldRepository form alanı veritabanı işlemleri için arayüz.
type IFormFieldRepository interface {
	Create(ctx context.Context, field *models.FormField) error
	FindByFormID(ctx context.Context, formID string) ([]models.FormField, error)
	DeleteByFormID(ctx context.Context, formID string) error
}

// FormFieldRepository IFormFieldRepository arayüzünü uygular.
type FormFieldRepository struct {
	db *gorm.DB
}

// NewFormFieldRepository yeni bir FormFieldRepository örneği oluşturur.
func NewFormFieldRepository() IFormFieldRepository {
	return &FormFieldRepository{db: configs.GetDB()}
}

// NewFormFieldRepositoryTx verilen transaction'a bağlı bir repository oluşturur.
func NewFormFieldRepositoryTx(tx *gorm.DB) IFormFieldRepository {
	return &FormFieldRepository{db: tx}
}

func (r *FormFieldRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir alan kaydı oluşturur.
func (r *FormFieldRepository) Create(ctx context.Context, field *models.FormField) error {
	if field == nil || field.FormID == "" {
		return errors.New("form bilgisi olmayan alan oluşturulamaz")
	}
	return r.getDB(ctx).Create(field).Error
}

// FindByFormID bir forma ait alanları order_index'e göre artan sırada getirir.
func (r *FormFieldRepository) FindByFormID(ctx context.Context, formID string) ([]models.FormField, error) {
	if formID == "" {
		return nil, errors.New("geçersiz Form ID")
	}
	var fields []models.FormField
	err := r.getDB(ctx).Where("form_id = ?", formID).Order("order_index asc").Find(&fields).Error
	if err != nil {
		configslog.Log.Error("FormFieldRepository.FindByFormID: DB error", zap.String("formID", formID), zap.Error(err))
		return nil, err
	}
	return fields, nil
}

// DeleteByFormID bir forma ait tüm alanları siler.
func (r *FormFieldRepository) DeleteByFormID(ctx context.Context, formID string) error {
	if formID == "" {
		return errors.New("geçersiz Form ID")
	}
	err := r.getDB(ctx).Where("form_id = ?", formID).Delete(&models.FormField{}).Error
	if err != nil {
		configslog.Log.Error("FormFieldRepository.DeleteByFormID: DB error", zap.String("formID", formID), zap.Error(err))
	}
	return err
}

var _ IFormFieldRepository = (*FormFieldRepository)(nil)
