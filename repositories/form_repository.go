package repositories

import (
	"context"
	"errors"

	"formum.link/configs"
	"formum.link/configs/configslog"
	"formum.link/models"
	"formum.link/pkg/turkishsearch"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IFormRepository form veritabanı işlemleri için arayüz.
type IFormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id string) (*models.Form, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Form, error)
	FindAllByCompanyID(ctx context.Context, companyID string, onlyActive bool, titleSearch string) ([]models.Form, error)
	Update(ctx context.Context, form *models.Form) error
	UpdateColumns(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateOrderIndex(ctx context.Context, id string, companyID string, orderIndex int) (int64, error)
	Delete(ctx context.Context, id string) error
	CountByCompanyID(ctx context.Context, companyID string) (int64, error)
}

// FormRepository IFormRepository arayüzünü uygular.
type FormRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Form]
}

// NewFormRepository yeni bir FormRepository örneği oluşturur.
func NewFormRepository() IFormRepository {
	return NewFormRepositoryTx(configs.GetDB())
}

// NewFormRepositoryTx verilen transaction'a bağlı bir FormRepository oluşturur.
func NewFormRepositoryTx(tx *gorm.DB) IFormRepository {
	base := NewBaseRepository[models.Form](tx)
	base.SetAllowedSortColumns([]string{"id", "created_at", "order_index", "is_active", "title"})
	return &FormRepository{db: tx, base: base}
}

func (r *FormRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir form kaydı oluşturur.
func (r *FormRepository) Create(ctx context.Context, form *models.Form) error {
	if form == nil || form.CompanyID == "" {
		return errors.New("şirket bilgisi olmayan form oluşturulamaz")
	}
	return r.getDB(ctx).Create(form).Error
}

// FindByID belirli bir ID'ye sahip formu bulur.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*models.Form, error) {
	if id == "" {
		return nil, errors.New("geçersiz Form ID")
	}
	form, err := r.base.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("FormRepository.FindByID: DB error", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return form, nil
}

// FindByIDForUpdate formu satır kilidiyle (SELECT ... FOR UPDATE) bulur.
// Yalnızca transaction içinden çağrılmalıdır.
func (r *FormRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Form, error) {
	if id == "" {
		return nil, errors.New("geçersiz Form ID")
	}
	var form models.Form
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&form, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindByIDForUpdate: DB error", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// FindAllByCompanyID bir şirkete ait formları order_index'e göre artan sırada getirir.
// onlyActive true ise pasif formlar dışlanır; titleSearch doluysa başlıkta
// Türkçe duyarsız arama yapılır.
func (r *FormRepository) FindAllByCompanyID(ctx context.Context, companyID string, onlyActive bool, titleSearch string) ([]models.Form, error) {
	if companyID == "" {
		return nil, errors.New("geçersiz Company ID")
	}
	query := r.getDB(ctx).Model(&models.Form{}).Where("company_id = ?", companyID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if titleSearch != "" {
		fragment, args := turkishsearch.SQLFilter("title", titleSearch)
		query = query.Where(fragment, args...)
	}

	var forms []models.Form
	err := query.Order("order_index asc").Find(&forms).Error
	if err != nil {
		configslog.Log.Error("FormRepository.FindAllByCompanyID: DB error", zap.String("companyID", companyID), zap.Error(err))
		return nil, err
	}
	return forms, nil
}

// Update formu tüm alanlarıyla kaydeder.
func (r *FormRepository) Update(ctx context.Context, form *models.Form) error {
	if form == nil || form.ID == "" {
		return errors.New("güncellenecek form geçerli değil")
	}
	return r.getDB(ctx).Save(form).Error
}

// UpdateColumns formun yalnızca verilen sütunlarını günceller.
func (r *FormRepository) UpdateColumns(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return errors.New("geçersiz Form ID")
	}
	result := r.getDB(ctx).Model(&models.Form{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		configslog.Log.Error("FormRepository.UpdateColumns: DB error", zap.String("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrderIndex formun sıra değerini şirket korumasıyla günceller.
// WHERE koşulu company_id içerir: başka bir şirkete ait form, ID listeye
// yanlışlıkla girmiş olsa bile asla etkilenmez. Etkilenen satır sayısı döner.
func (r *FormRepository) UpdateOrderIndex(ctx context.Context, id string, companyID string, orderIndex int) (int64, error) {
	if id == "" || companyID == "" {
		return 0, errors.New("geçersiz Form veya Company ID")
	}
	result := r.getDB(ctx).Model(&models.Form{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Updates(map[string]interface{}{"order_index": orderIndex})
	if result.Error != nil {
		configslog.Log.Error("FormRepository.UpdateOrderIndex: DB error",
			zap.String("id", id), zap.String("companyID", companyID), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete formu kalıcı olarak siler. Kayıt yoksa hata dönmez;
// silme çağıran açısından idempotenttir.
func (r *FormRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("geçersiz Form ID")
	}
	result := r.getDB(ctx).Delete(&models.Form{}, "id = ?", id)
	if result.Error != nil {
		configslog.Log.Error("FormRepository.Delete: DB error", zap.String("id", id), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// CountByCompanyID bir şirkete ait form sayısını döndürür.
func (r *FormRepository) CountByCompanyID(ctx context.Context, companyID string) (int64, error) {
	if companyID == "" {
		return 0, errors.New("geçersiz Company ID")
	}
	var count int64
	err := r.getDB(ctx).Model(&models.Form{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

var _ IFormRepository = (*FormRepository)(nil)
