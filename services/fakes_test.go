package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"testing"

	"formum.link/configs/configslog"
	"formum.link/models"
	"formum.link/pkg/identity"
	"formum.link/pkg/queryparams"
	"formum.link/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.Log = zap.NewNop()
	configslog.SLog = configslog.Log.Sugar()
	os.Exit(m.Run())
}

// newTxTestDB transaction sınırlarını (Begin/Commit/Rollback) doğrulayabilen
// sahte bir gorm bağlantısı döndürür. Sorguların kendisi in-memory
// repository sahteleri üzerinden çalışır, bu bağlantıya düşmez.
func newTxTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// --- In-memory repository sahteleri ---

type fakeFormRepo struct {
	forms     map[string]*models.Form
	nextID    int
	createErr error
	updateErr error
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: map[string]*models.Form{}}
}

func (r *fakeFormRepo) Create(ctx context.Context, form *models.Form) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	form.ID = fmt.Sprintf("form-%d", r.nextID)
	stored := *form
	r.forms[form.ID] = &stored
	return nil
}

func (r *fakeFormRepo) FindByID(ctx context.Context, id string) (*models.Form, error) {
	form, ok := r.forms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	found := *form
	return &found, nil
}

func (r *fakeFormRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Form, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeFormRepo) FindAllByCompanyID(ctx context.Context, companyID string, onlyActive bool, titleSearch string) ([]models.Form, error) {
	var result []models.Form
	for _, form := range r.forms {
		if form.CompanyID != companyID {
			continue
		}
		if onlyActive && !form.IsActive {
			continue
		}
		result = append(result, *form)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderIndex < result[j].OrderIndex })
	return result, nil
}

func (r *fakeFormRepo) Update(ctx context.Context, form *models.Form) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.forms[form.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *form
	r.forms[form.ID] = &stored
	return nil
}

func (r *fakeFormRepo) UpdateColumns(ctx context.Context, id string, updates map[string]interface{}) error {
	form, ok := r.forms[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if isActive, ok := updates["is_active"].(bool); ok {
		form.IsActive = isActive
	}
	return nil
}

func (r *fakeFormRepo) UpdateOrderIndex(ctx context.Context, id string, companyID string, orderIndex int) (int64, error) {
	form, ok := r.forms[id]
	if !ok || form.CompanyID != companyID {
		return 0, nil
	}
	form.OrderIndex = orderIndex
	return 1, nil
}

func (r *fakeFormRepo) Delete(ctx context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

func (r *fakeFormRepo) CountByCompanyID(ctx context.Context, companyID string) (int64, error) {
	var count int64
	for _, form := range r.forms {
		if form.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

type fakeStepRepo struct {
	steps     []models.FormStep
	nextID    int
	createErr error
}

func (r *fakeStepRepo) Create(ctx context.Context, step *models.FormStep) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	step.ID = fmt.Sprintf("step-db-%d", r.nextID)
	r.steps = append(r.steps, *step)
	return nil
}

func (r *fakeStepRepo) FindByFormID(ctx context.Context, formID string) ([]models.FormStep, error) {
	var result []models.FormStep
	for _, step := range r.steps {
		if step.FormID == formID {
			result = append(result, step)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OrderIndex < result[j].OrderIndex })
	return result, nil
}

func (r *fakeStepRepo) DeleteByFormID(ctx context.Context, formID string) error {
	kept := r.steps[:0]
	for _, step := range r.steps {
		if step.FormID != formID {
			kept = append(kept, step)
		}
	}
	r.steps = kept
	return nil
}

type fakeFieldRepo struct {
	fields    []models.FormField
	nextID    int
	createErr error
}

func (r *fakeFieldRepo) Create(ctx context.Context, field *models.FormField) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	field.ID = fmt.Sprintf("field-db-%d", r.nextID)
	r.fields = append(r.fields, *field)
	return nil
}

func (r *fakeFieldRepo) FindByFormID(ctx context.Context, formID string) ([]models.FormField, error) {
	var result []models.FormField
	for _, field := range r.fields {
		if field.FormID == formID {
			result = append(result, field)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OrderIndex < result[j].OrderIndex })
	return result, nil
}

func (r *fakeFieldRepo) DeleteByFormID(ctx context.Context, formID string) error {
	kept := r.fields[:0]
	for _, field := range r.fields {
		if field.FormID != formID {
			kept = append(kept, field)
		}
	}
	r.fields = kept
	return nil
}

type fakeResponseRepo struct {
	responses     []models.FormResponse
	data          []models.FormResponseData
	nextID        int
	createErr     error
	createDataErr error
}

func (r *fakeResponseRepo) CreateResponse(ctx context.Context, response *models.FormResponse) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	response.ID = fmt.Sprintf("response-%d", r.nextID)
	r.responses = append(r.responses, *response)
	return nil
}

func (r *fakeResponseRepo) CreateResponseData(ctx context.Context, data []models.FormResponseData) error {
	if r.createDataErr != nil {
		return r.createDataErr
	}
	r.data = append(r.data, data...)
	return nil
}

func (r *fakeResponseRepo) FindByFormIDPaginated(ctx context.Context, formID string, params queryparams.ListParams) ([]models.FormResponse, int64, error) {
	all := r.responsesForForm(formID)
	total := int64(len(all))

	offset := params.CalculateOffset()
	if offset >= len(all) {
		return []models.FormResponse{}, total, nil
	}
	end := offset + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeResponseRepo) FindAllByFormID(ctx context.Context, formID string) ([]models.FormResponse, error) {
	return r.responsesForForm(formID), nil
}

func (r *fakeResponseRepo) responsesForForm(formID string) []models.FormResponse {
	var result []models.FormResponse
	for _, response := range r.responses {
		if response.FormID != formID {
			continue
		}
		withData := response
		withData.Data = nil
		for _, row := range r.data {
			if row.ResponseID == response.ID {
				withData.Data = append(withData.Data, row)
			}
		}
		result = append(result, withData)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result
}

func (r *fakeResponseRepo) DeleteByFormID(ctx context.Context, formID string) error {
	keptResponses := r.responses[:0]
	deleted := map[string]bool{}
	for _, response := range r.responses {
		if response.FormID == formID {
			deleted[response.ID] = true
			continue
		}
		keptResponses = append(keptResponses, response)
	}
	r.responses = keptResponses

	keptData := r.data[:0]
	for _, row := range r.data {
		if !deleted[row.ResponseID] {
			keptData = append(keptData, row)
		}
	}
	r.data = keptData
	return nil
}

func (r *fakeResponseRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	return int64(len(r.responsesForForm(formID))), nil
}

// fakeIdentityClient identity.IClient için testlerde kullanılan sahtedir.
type fakeIdentityClient struct {
	usernames   map[string]string
	usernameErr error
}

func (c *fakeIdentityClient) VerifyUserToken(ctx context.Context, token string) (string, error) {
	return "user-" + token, nil
}

func (c *fakeIdentityClient) CheckCompanyAccess(ctx context.Context, userID, companyID string) (identity.AccessLevel, error) {
	return identity.AccessLevelAdmin, nil
}

func (c *fakeIdentityClient) GetUserName(ctx context.Context, userID string) (string, error) {
	if c.usernameErr != nil {
		return "", c.usernameErr
	}
	return c.usernames[userID], nil
}
