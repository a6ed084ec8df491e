package repositories

import (
	"context"
	"errors"

	"formum.link/configs"
	"formum.link/configs/configslog"
	"formum.link/models"
	"formum.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IFormResponseRepository form gönderimi veritabanı işlemleri için arayüz.
type IFormResponseRepository interface {
	CreateResponse(ctx context.Context, response *models.FormResponse) error
	CreateResponseData(ctx context.Context, data []models.FormResponseData) error
	FindByFormIDPaginated(ctx context.Context, formID string, params queryparams.ListParams) ([]models.FormResponse, int64, error)
	FindAllByFormID(ctx context.Context, formID string) ([]models.FormResponse, error)
	DeleteByFormID(ctx context.Context, formID string) error
	CountByFormID(ctx context.Context, formID string) (int64, error)
}

// FormResponseRepository IFormResponseRepository arayüzünü uygular.
type FormResponseRepository struct {
	db *gorm.DB
}

// NewFormResponseRepository yeni bir FormResponseRepository örneği oluşturur.
func NewFormResponseRepository() IFormResponseRepository {
	return &FormResponseRepository{db: configs.GetDB()}
}

// NewFormResponseRepositoryTx verilen transaction'a bağlı bir repository oluşturur.
func NewFormResponseRepositoryTx(tx *gorm.DB) IFormResponseRepository {
	return &FormResponseRepository{db: tx}
}

func (r *FormResponseRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// CreateResponse yeni bir gönderim kaydı oluşturur.
func (r *FormResponseRepository) CreateResponse(ctx context.Context, response *models.FormResponse) error {
	if response == nil || response.FormID == "" {
		return errors.New("form bilgisi olmayan gönderim oluşturulamaz")
	}
	return r.getDB(ctx).Create(response).Error
}

// CreateResponseData bir gönderime ait cevap kayıtlarını topluca ekler.
func (r *FormResponseRepository) CreateResponseData(ctx context.Context, data []models.FormResponseData) error {
	if len(data) == 0 {
		return nil
	}
	return r.getDB(ctx).Create(&data).Error
}

// FindByFormIDPaginated bir forma ait gönderimleri, cevaplarıyla birlikte,
// en yeniden eskiye sayfalayarak getirir.
func (r *FormResponseRepository) FindByFormIDPaginated(ctx context.Context, formID string, params queryparams.ListParams) ([]models.FormResponse, int64, error) {
	if formID == "" {
		return nil, 0, errors.New("geçersiz Form ID")
	}
	db := r.getDB(ctx)

	var totalCount int64
	if err := db.Model(&models.FormResponse{}).Where("form_id = ?", formID).Count(&totalCount).Error; err != nil {
		configslog.Log.Error("FormResponseRepository.Count: DB error", zap.String("formID", formID), zap.Error(err))
		return nil, 0, err
	}

	var responses []models.FormResponse
	if totalCount == 0 {
		return responses, 0, nil
	}

	err := db.Where("form_id = ?", formID).
		Preload("Data").
		Order("submitted_at desc").
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&responses).Error
	if err != nil {
		configslog.Log.Error("FormResponseRepository.FindByFormIDPaginated: DB error", zap.String("formID", formID), zap.Error(err))
		return nil, totalCount, err
	}
	return responses, totalCount, nil
}

// FindAllByFormID export için bir forma ait tüm gönderimleri getirir.
func (r *FormResponseRepository) FindAllByFormID(ctx context.Context, formID string) ([]models.FormResponse, error) {
	if formID == "" {
		return nil, errors.New("geçersiz Form ID")
	}
	var responses []models.FormResponse
	err := r.getDB(ctx).Where("form_id = ?", formID).
		Preload("Data").
		Order("submitted_at desc").
		Find(&responses).Error
	if err != nil {
		configslog.Log.Error("FormResponseRepository.FindAllByFormID: DB error", zap.String("formID", formID), zap.Error(err))
		return nil, err
	}
	return responses, nil
}

// DeleteByFormID bir forma ait tüm gönderimleri ve cevaplarını siler.
// Cevap kayıtları gönderim silindiğinde FK cascade ile düşmeyebilir
// (AutoMigrate constraint'i atlanmışsa), bu yüzden önce açıkça silinir.
func (r *FormResponseRepository) DeleteByFormID(ctx context.Context, formID string) error {
	if formID == "" {
		return errors.New("geçersiz Form ID")
	}
	db := r.getDB(ctx)

	err := db.Where("response_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Model(&models.FormResponse{}).Select("id").Where("form_id = ?", formID),
	).Delete(&models.FormResponseData{}).Error
	if err != nil {
		configslog.Log.Error("FormResponseRepository.DeleteByFormID: cevaplar silinemedi", zap.String("formID", formID), zap.Error(err))
		return err
	}

	err = db.Where("form_id = ?", formID).Delete(&models.FormResponse{}).Error
	if err != nil {
		configslog.Log.Error("FormResponseRepository.DeleteByFormID: gönderimler silinemedi", zap.String("formID", formID), zap.Error(err))
	}
	return err
}

// CountByFormID bir forma ait gönderim sayısını döndürür.
func (r *FormResponseRepository) CountByFormID(ctx context.Context, formID string) (int64, error) {
	if formID == "" {
		return 0, errors.New("geçersiz Form ID")
	}
	var count int64
	err := r.getDB(ctx).Model(&models.FormResponse{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

var _ IFormResponseRepository = (*FormResponseRepository)(nil)
