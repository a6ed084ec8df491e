package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formum.link/configs"
	"formum.link/configs/configslog"
	"formum.link/models"
	"formum.link/pkg/identity"
	"formum.link/pkg/queryparams"
	"formum.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FormResponseServiceError string

func (e FormResponseServiceError) Error() string { return string(e) }

const (
	ErrResponseFormNotFound     FormResponseServiceError = "form bulunamadı"
	ErrResponseFormInactive     FormResponseServiceError = "form aktif değil"
	ErrResponseSubmissionFailed FormResponseServiceError = "gönderim kaydedilemedi"
	ErrResponseDataWriteFailed  FormResponseServiceError = "gönderim verisi kaydedilemedi"
	ErrResponseInvalidInput     FormResponseServiceError = "geçersiz gönderim verisi"
	ErrResponseExportFailed     FormResponseServiceError = "dışa aktarma başarısız"
)

// SubmissionInput public submit endpoint'inden gelen gövdedir.
// Answers anahtarları alan ID'leridir; değerler serbest metindir.
type SubmissionInput struct {
	Answers     map[string]string `json:"answers"`
	SubmittedBy string            `json:"submitted_by"`
	IPAddress   string            `json:"-"`
	UserAgent   string            `json:"-"`
}

// AnswerView bir cevabın alan bilgisiyle zenginleştirilmiş görünümüdür.
type AnswerView struct {
	FieldID string  `json:"field_id"`
	Label   string  `json:"label"`
	Type    string  `json:"type"`
	Value   *string `json:"value"`
}

// ResponseListItem gönderim listesinde dönen tek kayıttır.
type ResponseListItem struct {
	ID          string       `json:"id"`
	SubmittedAt time.Time    `json:"submitted_at"`
	SubmittedBy *string      `json:"submitted_by"`
	Username    *string      `json:"username"`
	Answers     []AnswerView `json:"answers"`
}

// ResponseExport bir formun tüm gönderimlerinin dışa aktarım gövdesidir.
type ResponseExport struct {
	FormID      string              `json:"form_id"`
	FormTitle   string              `json:"form_title"`
	ExportedAt  time.Time           `json:"exported_at"`
	Total       int                 `json:"total"`
	Submissions []SubmissionExport  `json:"submissions"`
	Fields      []FieldExportHeader `json:"fields"`
}

// FieldExportHeader dışa aktarımda sütun başlığı görevi görür.
type FieldExportHeader struct {
	FieldID string `json:"field_id"`
	Label   string `json:"label"`
	Type    string `json:"type"`
}

// SubmissionExport tek bir gönderimin dışa aktarım satırıdır.
type SubmissionExport struct {
	ResponseID  string             `json:"response_id"`
	SubmittedAt time.Time          `json:"submitted_at"`
	SubmittedBy *string            `json:"submitted_by"`
	Username    *string            `json:"username"`
	Answers     map[string]*string `json:"answers"`
}

type IFormResponseService interface {
	SubmitFormResponse(ctx context.Context, formID string, input SubmissionInput) (*models.FormResponse, error)
	GetFormResponses(ctx context.Context, formID string, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	BuildFormExport(ctx context.Context, formID string) (*ResponseExport, error)
}

// FormResponseService gönderim akışını yönetir. Kullanıcı adı zenginleştirme
// identity servisi üzerinden yapılır ve en-iyi-çaba esaslıdır: identity
// erişilemezse gönderim kullanıcı adsız kaydedilir.
type FormResponseService struct {
	db             *gorm.DB
	formRepo       repositories.IFormRepository
	fieldRepo      repositories.IFormFieldRepository
	responseRepo   repositories.IFormResponseRepository
	identityClient identity.IClient
}

func NewFormResponseService(identityClient identity.IClient) IFormResponseService {
	return NewFormResponseServiceWithDB(configs.GetDB(), identityClient)
}

func NewFormResponseServiceWithDB(db *gorm.DB, identityClient identity.IClient) *FormResponseService {
	return &FormResponseService{
		db:             db,
		formRepo:       repositories.NewFormRepositoryTx(db),
		fieldRepo:      repositories.NewFormFieldRepositoryTx(db),
		responseRepo:   repositories.NewFormResponseRepositoryTx(db),
		identityClient: identityClient,
	}
}

// SubmitFormResponse bir gönderimi kaydeder. Cevaplar önce formun güncel
// girdi alanlarıyla eşleştirilir; hiçbir alanla eşleşmeyen bir gönderim daha
// hiçbir satır yazılmadan reddedilir. Ardından önce gönderim satırı, sonra
// cevap satırları yazılır. Cevap satırları yazılamadığında gönderim satırı
// geride kalır ve çağırana hata döner: kısmi yazım durumunda istemci tekrar
// denediğinde mükerrer gönderim oluşabilir, bu kabul edilmiş bir takastır.
// Sessiz veri kaybına karşı hata her zaman raporlanır.
func (s *FormResponseService) SubmitFormResponse(ctx context.Context, formID string, input SubmissionInput) (*models.FormResponse, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrResponseInvalidInput)
	}
	if len(input.Answers) == 0 {
		return nil, fmt.Errorf("%w: cevap verisi boş", ErrResponseInvalidInput)
	}

	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResponseFormNotFound
		}
		return nil, err
	}
	if !form.IsActive {
		return nil, ErrResponseFormInactive
	}

	// Sadece formun girdi alanlarına ait cevaplar kaydedilir; bilinmeyen
	// anahtarlar ve görsel öğelere (heading, paragraph) gelen değerler atlanır.
	fields, err := s.fieldRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	inputFieldIDs := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field.IsInputType() {
			inputFieldIDs[field.ID] = true
		}
	}

	validAnswers := make(map[string]string, len(input.Answers))
	for fieldID, value := range input.Answers {
		if inputFieldIDs[fieldID] {
			validAnswers[fieldID] = value
		}
	}
	if len(validAnswers) == 0 {
		return nil, fmt.Errorf("%w: cevaplar formun hiçbir girdi alanıyla eşleşmiyor", ErrResponseInvalidInput)
	}

	response := models.FormResponse{
		FormID:    formID,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if input.SubmittedBy != "" {
		submittedBy := input.SubmittedBy
		response.SubmittedBy = &submittedBy

		if s.identityClient != nil {
			username, err := s.identityClient.GetUserName(ctx, submittedBy)
			if err != nil {
				configslog.SLog.Warnf("Kullanıcı adı alınamadı, gönderim adsız kaydediliyor: %s (%v)", submittedBy, err)
			} else if username != "" {
				response.Username = &username
			}
		}
	}

	if err := s.responseRepo.CreateResponse(ctx, &response); err != nil {
		configslog.Log.Error("SubmitFormResponse: gönderim satırı yazılamadı",
			zap.String("formID", formID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrResponseSubmissionFailed, err)
	}

	dataRows := make([]models.FormResponseData, 0, len(validAnswers))
	for fieldID, value := range validAnswers {
		v := value
		dataRows = append(dataRows, models.FormResponseData{
			ResponseID: response.ID,
			FieldID:    fieldID,
			Value:      &v,
		})
	}

	if err := s.responseRepo.CreateResponseData(ctx, dataRows); err != nil {
		configslog.Log.Error("SubmitFormResponse: cevap satırları yazılamadı, gönderim satırı geride kaldı",
			zap.String("formID", formID), zap.String("responseID", response.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrResponseDataWriteFailed, err)
	}
	response.Data = dataRows

	configslog.SLog.Infof("Form gönderimi kaydedildi: form %s, gönderim %s, %d cevap", formID, response.ID, len(dataRows))
	return &response, nil
}

// GetFormResponses bir formun gönderimlerini en yeniden eskiye doğru,
// sayfalı olarak getirir. Her cevap, ait olduğu alanın etiketi ve türüyle
// zenginleştirilir; alanı silinmiş eski cevaplar etiketsiz döner.
func (s *FormResponseService) GetFormResponses(ctx context.Context, formID string, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrResponseInvalidInput)
	}
	params.Validate()

	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResponseFormNotFound
		}
		return nil, err
	}

	fields, err := s.fieldRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	fieldsByID := make(map[string]models.FormField, len(fields))
	for _, field := range fields {
		fieldsByID[field.ID] = field
	}

	responses, totalCount, err := s.responseRepo.FindByFormIDPaginated(ctx, formID, params)
	if err != nil {
		configslog.Log.Error("GetFormResponses failed", zap.String("formID", formID), zap.Error(err))
		return nil, err
	}

	items := make([]ResponseListItem, 0, len(responses))
	for _, response := range responses {
		answers := make([]AnswerView, 0, len(response.Data))
		for _, row := range response.Data {
			view := AnswerView{FieldID: row.FieldID, Value: row.Value}
			if field, ok := fieldsByID[row.FieldID]; ok {
				view.Label = field.Label
				view.Type = string(field.Type)
			}
			answers = append(answers, view)
		}
		items = append(items, ResponseListItem{
			ID:          response.ID,
			SubmittedAt: response.SubmittedAt,
			SubmittedBy: response.SubmittedBy,
			Username:    response.Username,
			Answers:     answers,
		})
	}

	return &queryparams.PaginatedResult{
		Data: items,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// BuildFormExport bir formun tüm gönderimlerini dışa aktarım gövdesine dönüştürür.
// Başlık satırı formun girdi alanlarından kurulur; her gönderim, alan ID'si
// üzerinden cevaplara eşlenir. Cevabı olmayan alanlar nil değerle yer alır.
func (s *FormResponseService) BuildFormExport(ctx context.Context, formID string) (*ResponseExport, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: geçersiz Form ID", ErrResponseInvalidInput)
	}

	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResponseFormNotFound
		}
		return nil, err
	}

	fields, err := s.fieldRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseExportFailed, err)
	}

	headers := make([]FieldExportHeader, 0, len(fields))
	for _, field := range fields {
		if !field.IsInputType() {
			continue
		}
		headers = append(headers, FieldExportHeader{
			FieldID: field.ID,
			Label:   field.Label,
			Type:    string(field.Type),
		})
	}

	responses, err := s.responseRepo.FindAllByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseExportFailed, err)
	}

	submissions := make([]SubmissionExport, 0, len(responses))
	for _, response := range responses {
		answers := make(map[string]*string, len(headers))
		for _, header := range headers {
			answers[header.FieldID] = nil
		}
		for _, row := range response.Data {
			answers[row.FieldID] = row.Value
		}
		submissions = append(submissions, SubmissionExport{
			ResponseID:  response.ID,
			SubmittedAt: response.SubmittedAt,
			SubmittedBy: response.SubmittedBy,
			Username:    response.Username,
			Answers:     answers,
		})
	}

	configslog.SLog.Infof("Form gönderimleri dışa aktarıldı: form %s, %d gönderim", formID, len(submissions))
	return &ResponseExport{
		FormID:      form.ID,
		FormTitle:   form.Title,
		ExportedAt:  time.Now().UTC(),
		Total:       len(submissions),
		Submissions: submissions,
		Fields:      headers,
	}, nil
}

var _ IFormResponseService = (*FormResponseService)(nil)
