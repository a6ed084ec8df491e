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

// IFormStepRepository form adımı veritabanı işlemleri için arayüz.
type IFormStepRepository interface {
	Create(ctx context.Context, step *models.FormStep) error
	FindByFormID(ctx context.Context, formID string) ([]models.FormStep, error)
	DeleteByFormID(ctx context.Context, formID string) error
}

// FormStepRepository IFormStepRepository arayüzünü uygular.
type FormStepRepository struct {
	db *gorm.DB
}

// NewFormStepRepository yeni bir FormStepRepository örneği oluşturur.
func NewFormStepRepository() IFormStepRepository {
	return &FormStepRepository{db: configs.GetDB()}
}

// NewFormStepRepositoryTx verilen transaction'a bağlı bir repository oluşturur.
func NewFormStepRepositoryTx(tx *gorm.DB) IFormStepRepository {
	return &FormStepRepository{db: tx}
}

func (r *FormStepRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir adım kaydı oluşturur; kalıcı ID BeforeCreate hook'unda
// atanır ve çağrı dönüşünde step.ID üzerinden okunabilir.
func (r *FormStepRepository) Create(ctx context.Context, step *models.FormStep) error {
	if step == nil || step.FormID == "" {
		return errors.New("form bilgisi olmayan adım oluşturulamaz")
	}
	return r.getDB(ctx).Create(step).Error
}

// FindByFormID bir forma ait adımları order_index'e göre artan sırada getirir.
func (r *FormStepRepository) FindByFormID(ctx context.Context, formID string) ([]models.FormStep, error) {
	if formID == "" {
		return nil, errors.New("geçersiz Form ID")
	}
	var steps []models.FormStep
	err := r.getDB(ctx).Where("form_id = ?", formID).Order("order_index asc").Find(&steps).Error
	if err != nil {
		configslog.Log.Error("FormStepRepository.FindByFormID: DB error", zap.String("formID", formID), zap.Error(err))
		return nil, err
	}
	return steps, nil
}

// DeleteByFormID bir forma ait tüm adımları siler.
func (r *FormStepRepository) DeleteByFormID(ctx context.Context, formID string) error {
	if formID == "" {
		return errors.New("geçersiz Form ID")
	}
	err := r.getDB(ctx).Where("form_id = ?", formID).Delete(&models.FormStep{}).Error
	if err != nil {
		configslog.Log.Error("FormStepRepository.DeleteByFormID: DB error", zap.String("formID", formID), zap.Error(err))
	}
	return err
}

var _ IFormStepRepository = (*FormStepRepository)(nil)
