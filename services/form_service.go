package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"formum.link/configs"
	"formum.link/configs/configslog"
	"formum.link/models"
	"formum.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FormServiceError özel servis hataları
type FormServiceError string

func (e FormServiceError) Error() string { return string(e) }

const (
	ErrFormNotFound            FormServiceError = "form bulunamadı"
	ErrFormCreationFailed      FormServiceError = "form oluşturulamadı"
	ErrFormUpdateFailed        FormServiceError = "form güncellenemedi"
	ErrFormDeletionFailed      FormServiceError = "form silinemedi"
	ErrFormReorderFailed       FormServiceError = "form sıralaması güncellenemedi"
	ErrFrmInvalidInput         FormServiceError = "geçersiz girdi verisi"
	ErrFormTitleRequired       FormServiceError = "form başlığı zorunludur"
	ErrFormCompanyRequired     FormServiceError = "şirket bilgisi zorunludur"
	ErrFormStepCreationFailed  FormServiceError = "form adımı oluşturulamadı"
	ErrFormFieldCreationFailed FormServiceError = "form alanı oluşturulamadı"
)

// StepInput form builder'dan gelen adım verisidir. ID alanı istemcinin
// ürettiği geçici bir değerdir; yalnızca aynı istek içindeki alanları bu
// adıma bağlamak için kullanılır, asla veritabanına yazılmaz.
type StepInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FieldInput form builder'dan gelen alan verisidir. StepID, StepInput.ID
// ile aynı geçici ID uzayındadır.
type FieldInput struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	Content     string   `json:"content"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
	StepID      string   `json:"step_id"`
}

// FormInput form oluşturma ve tam değiştirme (edit) isteklerinin gövdesidir.
// Düzenleme her zaman istenen Step/Field kümesinin TAMAMINI içerir;
// gönderilmeyen her şey silinir (diff/patch yoktur).
type FormInput struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	CompanyID        string                 `json:"company_id"`
	FormType         string                 `json:"form_type"`
	Steps            []StepInput            `json:"steps"`
	Fields           []FieldInput           `json:"fields"`
	Settings         map[string]interface{} `json:"settings"`
	UseDefaultColors *bool                  `json:"use_default_colors"`
}

// IFormService form yaşam döngüsü işlemleri için arayüz.
type IFormService interface {
	CreateForm(ctx context.Context, createdBy string, input FormInput) (*models.FormDocument, error)
	UpdateForm(ctx context.Context, formID string, input FormInput) (*models.FormDocument, error)
	DeleteForm(ctx context.Context, formID string) error
	ToggleFormActivity(ctx context.Context, formID string) (*models.FormDocument, error)
	ReorderForms(ctx context.Context, companyID string, formIDs []string) error
	GetFormByID(ctx context.Context, formID string) (*models.FormDocument, error)
	GetFormsForCompany(ctx context.Context, companyID string, onlyActive bool, titleSearch string) ([]models.FormDocument, error)
}

// FormService IFormService arayüzünü uygular.
// Repository üreticileri test ortamında sahteleriyle değiştirilebilir;
// canlıda her transaction için tx'e bağlı gerçek repository'ler üretilir.
type FormService struct {
	db *gorm.DB

	repo      repositories.IFormRepository
	stepRepo  repositories.IFormStepRepository
	fieldRepo repositories.IFormFieldRepository

	newFormRepo     func(tx *gorm.DB) repositories.IFormRepository
	newStepRepo     func(tx *gorm.DB) repositories.IFormStepRepository
	newFieldRepo    func(tx *gorm.DB) repositories.IFormFieldRepository
	newResponseRepo func(tx *gorm.DB) repositories.IFormResponseRepository
}

// NewFormService yeni bir FormService örneği oluşturur.
func NewFormService() IFormService {
	return NewFormServiceWithDB(configs.GetDB())
}

// NewFormServiceWithDB verilen DB bağlantısıyla bir FormService oluşturur (DI için).
func NewFormServiceWithDB(db *gorm.DB) *FormService {
	return &FormService{
		db:              db,
		repo:            repositories.NewFormRepositoryTx(db),
		stepRepo:        repositories.NewFormStepRepositoryTx(db),
		fieldRepo:       repositories.NewFormFieldRepositoryTx(db),
		newFormRepo:     repositories.NewFormRepositoryTx,
		newStepRepo:     repositories.NewFormStepRepositoryTx,
		newFieldRepo:    repositories.NewFormFieldRepositoryTx,
		newResponseRepo: repositories.NewFormResponseRepositoryTx,
	}
}

// --- Yardımcı Fonksiyonlar ---

// ValidateFormInput oluşturma/değiştirme girdisinin asgari alanlarını doğrular.
// Doğrulama bilinçli olarak gevşektir: yalnızca başlık, (oluşturmada) şirket,
// adımlarda başlık ve alanlarda tür zorunludur. Daha derin şekil hataları
// persistence katmanında yüzeye çıkar.
func ValidateFormInput(input FormInput, requireCompany bool) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrFormTitleRequired
	}
	if requireCompany && strings.TrimSpace(input.CompanyID) == "" {
		return ErrFormCompanyRequired
	}
	for i, step := range input.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return fmt.Errorf("%w: %d. adımın başlığı eksik", ErrFrmInvalidInput, i+1)
		}
	}
	for i, field := range input.Fields {
		if strings.TrimSpace(field.Type) == "" {
			return fmt.Errorf("%w: %d. alanın türü eksik", ErrFrmInvalidInput, i+1)
		}
	}
	return nil
}

// normalizeFormType bilinmeyen değerleri varsayılan "single" türüne düşürür.
func normalizeFormType(raw string) models.FormType {
	if models.FormType(raw) == models.FormTypeMultiStep {
		return models.FormTypeMultiStep
	}
	return models.FormTypeSingle
}

// stepTempKey adım için istekte kullanılan geçici anahtarı döndürür.
// Builder bir ID göndermişse o kullanılır; göndermemişse konumdan
// "step_{i}" anahtarı türetilir.
func stepTempKey(step StepInput, index int) string {
	if step.ID != "" {
		return step.ID
	}
	return fmt.Sprintf("step_%d", index)
}

// resolveStepID alanın geçici adım referansını kalıcı adım ID'sine çevirir.
// Referans yoksa veya haritada bulunamazsa nil döner: çözümlenemeyen referans
// hata değildir, alan adıma bağlanmadan kaydedilir (bilinçli esneme politikası).
func resolveStepID(fieldStepID string, stepIDMap map[string]string) *string {
	if fieldStepID == "" {
		return nil
	}
	if durable, ok := stepIDMap[fieldStepID]; ok {
		return &durable
	}
	return nil
}

// persistStepsAndFields adımları ve alanları verilen sırayla kaydeder.
// Önce adımlar eklenir ve geçici ID -> kalıcı ID haritası kurulur; sonra
// alanlar bu haritayla çözümlenerek eklenir. order_index her iki koleksiyonda
// da gönderilen listedeki konumdur (alanlarda adım bazında sıfırlanmaz;
// builder'ın ürettiği konumlarla birebir uyum için).
func persistStepsAndFields(ctx context.Context, stepRepo repositories.IFormStepRepository, fieldRepo repositories.IFormFieldRepository, formID string, formType models.FormType, input FormInput) error {
	stepIDMap := make(map[string]string, len(input.Steps))

	if formType == models.FormTypeMultiStep && len(input.Steps) > 0 {
		for i, stepInput := range input.Steps {
			step := models.FormStep{
				FormID:      formID,
				Title:       stepInput.Title,
				Description: stepInput.Description,
				OrderIndex:  i,
			}
			if err := stepRepo.Create(ctx, &step); err != nil {
				return fmt.Errorf("%w: %v", ErrFormStepCreationFailed, err)
			}
			stepIDMap[stepTempKey(stepInput, i)] = step.ID
		}
	}

	for i, fieldInput := range input.Fields {
		field := models.FormField{
			FormID:      formID,
			Type:        models.FieldType(fieldInput.Type),
			Label:       fieldInput.Label,
			Placeholder: fieldInput.Placeholder,
			Content:     fieldInput.Content,
			Required:    fieldInput.Required,
			Options:     fieldInput.Options,
			OrderIndex:  i,
			StepID:      resolveStepID(fieldInput.StepID, stepIDMap),
		}
		if err := fieldRepo.Create(ctx, &field); err != nil {
			return fmt.Errorf("%w: %v", ErrFormFieldCreationFailed, err)
		}
	}

	return nil
}

// getFormDocument formu adımları ve alanlarıyla yeniden okuyup dokümanı kurar.
// Adımlar yalnızca form çok adımlıysa okunur.
func (s *FormService) getFormDocument(ctx context.Context, form *models.Form) (*models.FormDocument, error) {
	var steps []models.FormStep
	if form.FormType == models.FormTypeMultiStep {
		var err error
		steps, err = s.stepRepo.FindByFormID(ctx, form.ID)
		if err != nil {
			return nil, err
		}
	}

	fields, err := s.fieldRepo.FindByFormID(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	doc := models.AssembleFormDocument(*form, steps, fields)
	return &doc, nil
}

// --- Servis Metodları ---

// CreateForm yeni bir formu adımları ve alanlarıyla birlikte oluşturur.
// Adım ekleme, alan eklemeden önce tamamlanır; geçici adım ID'leri bu sırada
// kalıcı ID'lere çevrilir. Tüm yazmalar tek transaction içindedir.
func (s *FormService) CreateForm(ctx context.Context, createdBy string, input FormInput) (*models.FormDocument, error) {
	if err := ValidateFormInput(input, true); err != nil {
		return nil, err
	}

	formType := normalizeFormType(input.FormType)
	useDefaultColors := true
	if input.UseDefaultColors != nil {
		useDefaultColors = *input.UseDefaultColors
	}
	settings := input.Settings
	if settings == nil {
		settings = map[string]interface{}{}
	}

	form := models.Form{
		Title:            input.Title,
		Description:      input.Description,
		CompanyID:        input.CompanyID,
		CreatedBy:        createdBy,
		FormType:         formType,
		IsActive:         true,
		Settings:         settings,
		UseDefaultColors: useDefaultColors,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		formRepoTx := s.newFormRepo(tx)
		stepRepoTx := s.newStepRepo(tx)
		fieldRepoTx := s.newFieldRepo(tx)

		if err := formRepoTx.Create(ctx, &form); err != nil {
			return fmt.Errorf("%w: %v", ErrFormCreationFailed, err)
		}

		return persistStepsAndFields(ctx, stepRepoTx, fieldRepoTx, form.ID, formType, input)
	})
	if txErr != nil {
		configslog.Log.Error("CreateForm transaction failed",
			zap.String("companyID", input.CompanyID), zap.Error(txErr))
		return nil, txErr
	}

	doc, err := s.getFormDocument(ctx, &form)
	if err != nil {
		return nil, fmt.Errorf("%w: oluşturulan form yeniden okunamadı: %v", ErrFormCreationFailed, err)
	}

	configslog.SLog.Infof("Form başarıyla oluşturuldu: ID %s, Başlık: %s, Şirket: %s", form.ID, form.Title, form.CompanyID)
	return doc, nil
}

// UpdateForm mevcut formu tam değiştirme (full replace) stratejisiyle günceller:
// formun değiştirilebilir alanları yazılır, TÜM mevcut adımlar ve alanlar
// silinir ve gönderilen küme sıfırdan eklenir. Eşzamanlı değiştirmelere karşı
// form satırı transaction boyunca kilitli tutulur.
func (s *FormService) UpdateForm(ctx context.Context, formID string, input FormInput) (*models.FormDocument, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrFrmInvalidInput)
	}
	if err := ValidateFormInput(input, false); err != nil {
		return nil, err
	}

	formType := normalizeFormType(input.FormType)
	useDefaultColors := true
	if input.UseDefaultColors != nil {
		useDefaultColors = *input.UseDefaultColors
	}
	settings := input.Settings
	if settings == nil {
		settings = map[string]interface{}{}
	}

	var updatedForm *models.Form
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		formRepoTx := s.newFormRepo(tx)
		stepRepoTx := s.newStepRepo(tx)
		fieldRepoTx := s.newFieldRepo(tx)

		existing, err := formRepoTx.FindByIDForUpdate(ctx, formID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return fmt.Errorf("%w: %v", ErrFormUpdateFailed, err)
		}

		existing.Title = input.Title
		existing.Description = input.Description
		existing.FormType = formType
		existing.Settings = settings
		existing.UseDefaultColors = useDefaultColors
		if err := formRepoTx.Update(ctx, existing); err != nil {
			return fmt.Errorf("%w: %v", ErrFormUpdateFailed, err)
		}

		if err := stepRepoTx.DeleteByFormID(ctx, formID); err != nil {
			return fmt.Errorf("%w: mevcut adımlar silinemedi: %v", ErrFormUpdateFailed, err)
		}
		if err := fieldRepoTx.DeleteByFormID(ctx, formID); err != nil {
			return fmt.Errorf("%w: mevcut alanlar silinemedi: %v", ErrFormUpdateFailed, err)
		}

		if err := persistStepsAndFields(ctx, stepRepoTx, fieldRepoTx, formID, formType, input); err != nil {
			return err
		}

		updatedForm = existing
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrFormNotFound) {
			configslog.Log.Error("UpdateForm transaction failed", zap.String("id", formID), zap.Error(txErr))
		}
		return nil, txErr
	}

	doc, err := s.getFormDocument(ctx, updatedForm)
	if err != nil {
		return nil, fmt.Errorf("%w: güncellenen form yeniden okunamadı: %v", ErrFormUpdateFailed, err)
	}

	configslog.SLog.Infof("Form başarıyla güncellendi: ID %s, Başlık: %s", formID, input.Title)
	return doc, nil
}

// DeleteForm formu ve ona bağlı tüm gönderimleri, alanları ve adımları siler.
// Var olmayan bir formu silmek hata değildir; işlem çağıran açısından
// idempotenttir ("zaten yok" = başarı).
func (s *FormService) DeleteForm(ctx context.Context, formID string) error {
	if formID == "" {
		return fmt.Errorf("%w: geçersiz Form ID", ErrFrmInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		formRepoTx := s.newFormRepo(tx)
		stepRepoTx := s.newStepRepo(tx)
		fieldRepoTx := s.newFieldRepo(tx)
		responseRepoTx := s.newResponseRepo(tx)

		if err := responseRepoTx.DeleteByFormID(ctx, formID); err != nil {
			return fmt.Errorf("%w: gönderimler silinemedi: %v", ErrFormDeletionFailed, err)
		}
		if err := fieldRepoTx.DeleteByFormID(ctx, formID); err != nil {
			return fmt.Errorf("%w: alanlar silinemedi: %v", ErrFormDeletionFailed, err)
		}
		if err := stepRepoTx.DeleteByFormID(ctx, formID); err != nil {
			return fmt.Errorf("%w: adımlar silinemedi: %v", ErrFormDeletionFailed, err)
		}
		if err := formRepoTx.Delete(ctx, formID); err != nil {
			return fmt.Errorf("%w: %v", ErrFormDeletionFailed, err)
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteForm transaction failed", zap.String("id", formID), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infof("Form ve bağlı kayıtları silindi: ID %s", formID)
	return nil
}

// ToggleFormActivity formun aktiflik durumunu tersine çevirir ve dokümanı döndürür.
func (s *FormService) ToggleFormActivity(ctx context.Context, formID string) (*models.FormDocument, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrFrmInvalidInput)
	}

	var toggledForm *models.Form
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		formRepoTx := s.newFormRepo(tx)

		form, err := formRepoTx.FindByIDForUpdate(ctx, formID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return fmt.Errorf("%w: %v", ErrFormUpdateFailed, err)
		}

		form.IsActive = !form.IsActive
		if err := formRepoTx.Update(ctx, form); err != nil {
			return fmt.Errorf("%w: %v", ErrFormUpdateFailed, err)
		}

		toggledForm = form
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrFormNotFound) {
			configslog.Log.Error("ToggleFormActivity transaction failed", zap.String("id", formID), zap.Error(txErr))
		}
		return nil, txErr
	}

	doc, err := s.getFormDocument(ctx, toggledForm)
	if err != nil {
		return nil, fmt.Errorf("%w: form yeniden okunamadı: %v", ErrFormUpdateFailed, err)
	}

	configslog.SLog.Infof("Form aktiflik durumu değiştirildi: ID %s, Aktif: %t", formID, toggledForm.IsActive)
	return doc, nil
}

// ReorderForms bir şirketin formlarını verilen ID sırasına göre yeniden sıralar.
// Listedeki i. form order_index = i+1 değerini alır (görüntüleme sırası 1'den
// başlar). Güncelleme (id, company_id) çifti üzerinden yapılır: şirkete ait
// olmayan bir ID listede olsa bile o satır etkilenmez, yalnızca atlanır ve
// loglanır. Tüm güncellemeler tek transaction içindedir.
func (s *FormService) ReorderForms(ctx context.Context, companyID string, formIDs []string) error {
	if strings.TrimSpace(companyID) == "" {
		return fmt.Errorf("%w: %v", ErrFrmInvalidInput, ErrFormCompanyRequired)
	}
	if formIDs == nil {
		return fmt.Errorf("%w: form ID listesi eksik", ErrFrmInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		formRepoTx := s.newFormRepo(tx)

		for i, formID := range formIDs {
			rowsAffected, err := formRepoTx.UpdateOrderIndex(ctx, formID, companyID, i+1)
			if err != nil {
				return fmt.Errorf("%w: %s güncellenemedi: %v", ErrFormReorderFailed, formID, err)
			}
			if rowsAffected == 0 {
				configslog.SLog.Warnf("ReorderForms: form bu şirkete ait değil veya mevcut değil, atlandı: %s (şirket: %s)", formID, companyID)
			}
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("ReorderForms transaction failed",
			zap.String("companyID", companyID), zap.Int("formCount", len(formIDs)), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infof("Formlar yeniden sıralandı: şirket %s, %d form", companyID, len(formIDs))
	return nil
}

// GetFormByID formu adımları ve alanlarıyla birlikte getirir.
func (s *FormService) GetFormByID(ctx context.Context, formID string) (*models.FormDocument, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrFrmInvalidInput)
	}

	form, err := s.repo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	return s.getFormDocument(ctx, form)
}

// GetFormsForCompany bir şirketin formlarını dokümanlar halinde getirir.
// onlyActive true ise yalnızca aktif formlar döner (public liste);
// false ise pasifler de dahildir (yönetici görünümü). Formlar order_index
// sırasıyla, her biri kendi adım ve alanlarıyla birlikte döner.
func (s *FormService) GetFormsForCompany(ctx context.Context, companyID string, onlyActive bool, titleSearch string) ([]models.FormDocument, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: %v", ErrFrmInvalidInput, ErrFormCompanyRequired)
	}

	forms, err := s.repo.FindAllByCompanyID(ctx, companyID, onlyActive, titleSearch)
	if err != nil {
		return nil, err
	}

	docs := make([]models.FormDocument, 0, len(forms))
	for i := range forms {
		doc, err := s.getFormDocument(ctx, &forms[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

var _ IFormService = (*FormService)(nil)
